package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_WeatherReadings(t *testing.T) {
	p := Extract("temperature 30 humidity 75 rainfall 2 wind speed 8")

	assert.Equal(t, Params{
		Temperature: IntValue(30),
		Humidity:    IntValue(75),
		Rainfall:    IntValue(2),
		WindSpeed:   IntValue(8),
	}, p)
}

func TestExtract_SoilReadingsAreReal(t *testing.T) {
	p := Extract("temp 28 humidity 70 rainfall 50 ph 6.5 om 3.2")

	require.True(t, p.Has(PH))
	assert.Equal(t, KindReal, p[PH].Kind())
	assert.InDelta(t, 6.5, p[PH].Real(), 1e-9)
	assert.InDelta(t, 3.2, p.Real(OrganicMatter, 0), 1e-9)
	assert.Equal(t, 28, p.Int(Temperature, 0))
}

func TestExtract_LabelAliases(t *testing.T) {
	tests := []struct {
		text string
		name Name
		want int
	}{
		{"temp: 31", Temperature, 31},
		{"Temperature is 29 degrees", Temperature, 29},
		{"humid 60", Humidity, 60},
		{"rain 12mm", Rainfall, 12},
		{"wind 14 km/h", WindSpeed, 14},
		{"fruit maturity 85%", FruitMaturity, 85},
		{"maturity 40", FruitMaturity, 40},
		{"tree age 20 years", TreeAge, 20},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := Extract(tt.text)
			require.True(t, p.Has(tt.name), "expected %s in %v", tt.name, p)
			assert.Equal(t, tt.want, p[tt.name].Int())
		})
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	p := Extract("temperature 30 yesterday, temperature 35 today")
	assert.Equal(t, 30, p.Int(Temperature, 0))
}

func TestExtract_ZeroIsPresent(t *testing.T) {
	p := Extract("rainfall 0")
	assert.True(t, p.Has(Rainfall))
	assert.Equal(t, 0, p.Int(Rainfall, 99))
}

func TestExtract_LabelWithoutNumberIsOmitted(t *testing.T) {
	p := Extract("the temperature is warm")
	assert.False(t, p.Has(Temperature))
}

func TestExtract_UnparsableNumberIsOmitted(t *testing.T) {
	p := Extract("temperature 99999999999999999999999")
	assert.False(t, p.Has(Temperature))
}

func TestExtractEnums_Priority(t *testing.T) {
	tests := []struct {
		text   string
		stage  string
		season string
	}{
		{"my seedling palms before rain", StageSeedling, SeasonPreMonsoon},
		{"mature palms in summer", StageMature, SeasonSummer},
		{"flowering stage, post-monsoon", StageFlowering, SeasonPostMonsoon},
		{"seedling and mature palms, after rain in winter", StageSeedling, SeasonPostMonsoon},
		{"Fruiting palms in WINTER", StageFruiting, SeasonWinter},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			p := ExtractEnums(tt.text)
			assert.Equal(t, tt.stage, p.Text(GrowthStage, ""))
			assert.Equal(t, tt.season, p.Text(Season, ""))
		})
	}
}

func TestExtractEnums_NoFuzzyMatching(t *testing.T) {
	p := ExtractEnums("seedlings? juvenil palms in sumer")
	assert.Equal(t, StageSeedling, p.Text(GrowthStage, ""))
	assert.False(t, p.Has(Season))
}

func TestParams_MergeKeepsExisting(t *testing.T) {
	p := Params{Temperature: IntValue(30)}
	p.Merge(Params{Temperature: IntValue(35), Humidity: IntValue(70)})

	assert.Equal(t, 30, p.Int(Temperature, 0))
	assert.Equal(t, 70, p.Int(Humidity, 0))
}

func TestParams_MissingPreservesOrder(t *testing.T) {
	p := Params{Humidity: IntValue(70), Rainfall: IntValue(0)}
	missing := p.Missing([]Name{Temperature, Humidity, Rainfall, WindSpeed})
	assert.Equal(t, []Name{Temperature, WindSpeed}, missing)
	assert.Nil(t, p.Missing(nil))
}

func TestParams_Defaults(t *testing.T) {
	p := Params{}
	assert.Equal(t, 25, p.Int(Temperature, 25))
	assert.InDelta(t, 6.5, p.Real(PH, 6.5), 1e-9)
	assert.Equal(t, StageMature, p.Text(GrowthStage, StageMature))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "30", IntValue(30).String())
	assert.Equal(t, "6.0", RealValue(6).String())
	assert.Equal(t, "6.5", RealValue(6.5).String())
	assert.Equal(t, "winter", EnumValue("winter").String())
	assert.Equal(t, "", Value{}.String())
}

func TestValue_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Params{Temperature: IntValue(30), PH: RealValue(6.5), Season: EnumValue(SeasonWinter)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"temperature":30,"pH":6.5,"season":"winter"}`, string(raw))
}

func TestMissingPrompt(t *testing.T) {
	assert.Equal(t, "", MissingPrompt(nil))
	assert.Equal(t, "I need the temperature.", MissingPrompt([]Name{Temperature}))
	assert.Equal(t, "I need the soil pH and organic matter percentage.", MissingPrompt([]Name{PH, OrganicMatter}))
	assert.Equal(t, "I need the temperature, humidity, rainfall, and wind speed.",
		MissingPrompt([]Name{Temperature, Humidity, Rainfall, WindSpeed}))
	assert.Equal(t, "I need the fruit maturity percentage and tree age in years.",
		MissingPrompt([]Name{FruitMaturity, TreeAge}))
}

func TestNames_AllKnown(t *testing.T) {
	names := Names()
	assert.Len(t, names, 10)
	for _, n := range names {
		assert.True(t, Known(n), n)
	}
	assert.False(t, Known("soilColour"))
}

func TestStagesAndSeasons(t *testing.T) {
	assert.Equal(t, []string{StageSeedling, StageJuvenile, StageFlowering, StageFruiting, StageMature}, Stages())
	assert.Equal(t, []string{SeasonPreMonsoon, SeasonPostMonsoon, SeasonWinter, SeasonSummer}, Seasons())
}
