package dialogue

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/extract"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstSource makes every template pick return the first response.
type firstSource struct{}

func (firstSource) Int63() int64 { return 0 }
func (firstSource) Seed(int64)   {}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(knowledge.MustDefault(),
		WithRand(rand.New(firstSource{})),
		WithLogger(logger.NewTest(t)),
	)
}

func firstResponse(t *testing.T, intent string) string {
	t.Helper()
	in, ok := knowledge.MustDefault().Intent(intent)
	require.True(t, ok)
	return in.Responses[0]
}

func TestRespond_EmptyInputKeepsState(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()
	e.Respond(s, "when should i spray")
	require.Equal(t, knowledge.IntentPesticide, s.Intent)

	r := e.Respond(s, "   ")

	assert.Equal(t, MsgEmpty, r.Text)
	assert.Equal(t, OutcomePrompted, r.Outcome)
	assert.Equal(t, knowledge.IntentPesticide, s.Intent, "empty input must not reset")
}

func TestRespond_DegenerateInputResets(t *testing.T) {
	e := newTestEngine(t)
	for _, in := range []string{"k", "?", "1", "??", "a1"} {
		t.Run(in, func(t *testing.T) {
			s := NewSession()
			e.Respond(s, "when should i spray")

			r := e.Respond(s, in)

			assert.Equal(t, MsgUnclear, r.Text)
			assert.Equal(t, OutcomeNoMatch, r.Outcome)
			assert.True(t, s.Idle())
		})
	}
}

func TestRespond_GreetingResetsActiveTopic(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()
	e.Respond(s, "when should i spray")
	require.False(t, s.Idle())

	r := e.Respond(s, "Hello")

	assert.Equal(t, firstResponse(t, knowledge.IntentGreeting), r.Text)
	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentGreeting, r.Intent)
	assert.True(t, s.Idle())
	assert.Empty(t, s.Collected)
}

func TestRespond_Thanks(t *testing.T) {
	e := newTestEngine(t)
	r := e.Respond(NewSession(), "thanks")
	assert.Equal(t, firstResponse(t, knowledge.IntentThanks), r.Text)
}

func TestRespond_PesticideSlotFilling(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()

	r := e.Respond(s, "when should i spray")
	assert.Equal(t, OutcomeIncompleteParameters, r.Outcome)
	assert.Equal(t, knowledge.IntentPesticide, s.Intent)
	assert.Equal(t,
		firstResponse(t, knowledge.IntentPesticide)+" I need the temperature, humidity, rainfall, and wind speed.",
		r.Text)
	assert.Equal(t, []extract.Name{extract.Temperature, extract.Humidity, extract.Rainfall, extract.WindSpeed}, r.Missing)

	r = e.Respond(s, "temperature 30 humidity 75")
	assert.Equal(t, OutcomeIncompleteParameters, r.Outcome)
	assert.Equal(t, "Okay, I've got that. I need the rainfall and wind speed. Can you provide it?", r.Text)
	assert.Equal(t, 30, s.Collected.Int(extract.Temperature, 0))

	r = e.Respond(s, "rainfall 2 wind speed 8")
	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentPesticide, r.Intent)
	assert.Contains(t, r.Text, "**Spray Conditions: EXCELLENT**")
	assert.Contains(t, r.Text, "**Dosage Multiplier:** 1.10x standard rate")
	assert.Contains(t, r.Text, "**Sprayability Score:** 100%")
	assert.True(t, s.Idle())
}

func TestRespond_ExistingReadingsAreNotOverwritten(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()
	e.Respond(s, "when should i spray")
	e.Respond(s, "temperature 30")
	e.Respond(s, "temperature 38 humidity 75")

	assert.Equal(t, 30, s.Collected.Int(extract.Temperature, 0))
	assert.Equal(t, []extract.Name{extract.Rainfall, extract.WindSpeed}, s.Missing())
}

func TestRespond_FertilizerZeroRainfallCountsAsPresent(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()

	r := e.Respond(s, "fertilizer advice")
	require.Equal(t, OutcomeIncompleteParameters, r.Outcome)
	assert.True(t, strings.HasSuffix(r.Text,
		"I need the temperature, humidity, rainfall, soil pH, and organic matter percentage."))

	r = e.Respond(s, "temperature 28 humidity 70 rainfall 0 ph 6.5 organic matter 3")
	require.Equal(t, OutcomeResolved, r.Outcome)
	assert.Contains(t, r.Text, "**Nitrogen (N):** 100.0g per palm")
	assert.Contains(t, r.Text, advisor.FertTimingDry)
}

func TestRespond_HarvestResolvedInOneTurn(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()

	r := e.Respond(s, "harvest: maturity 95 temperature 28 rainfall 50 humidity 80")

	require.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentHarvest, r.Intent)
	assert.Contains(t, r.Text, "**Estimated Days to Harvest:** **0 days**")
	assert.Contains(t, r.Text, "Confidence Level: **HIGH**")
	assert.Contains(t, r.Text, advisor.HarvestInitiate)
	assert.True(t, s.Idle())
}

func TestRespond_DiseaseNameBypassesClassification(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()

	r := e.Respond(s, "my palm has stem bleeding")

	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentDisease, r.Intent)
	assert.Equal(t, "stem_bleeding", r.Entity)
	assert.True(t, strings.HasPrefix(r.Text, "**STEM BLEEDING - COMPREHENSIVE TREATMENT PROTOCOL**"))
	assert.Contains(t, r.Text, "HIGH - Can be fatal if not treated promptly.")
	assert.True(t, s.Idle())
}

func TestRespond_SchemeListing(t *testing.T) {
	e := newTestEngine(t)
	r := e.Respond(NewSession(), "list schemes")

	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentGovernmentSchemes, r.Intent)
	assert.Empty(t, r.Entity)
	assert.True(t, strings.HasPrefix(r.Text, "**AVAILABLE GOVERNMENT SCHEMES FOR ARECANUT FARMERS:**"))
}

func TestRespond_SchemeDetailByAlias(t *testing.T) {
	e := newTestEngine(t)
	r := e.Respond(NewSession(), "tell me about dasd")

	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, "dasd_mini_mission_projects", r.Entity)
	assert.True(t, strings.HasPrefix(r.Text, "**DASD MINI MISSION PROJECTS**"))
	assert.Contains(t, r.Text, "**Region:** Kerala, Karnataka, Goa, Maharashtra, NE states")
}

func TestRespond_SchemeDetailByNameFragment(t *testing.T) {
	e := newTestEngine(t)
	r := e.Respond(NewSession(), "pmfby")

	assert.Equal(t, "pradhan_mantri_fasal_bima_yojana", r.Entity)
	assert.Contains(t, r.Text, "**Coverage:**")
}

func TestRespond_StaticIntent(t *testing.T) {
	e := newTestEngine(t)
	s := NewSession()

	r := e.Respond(s, "tell me about intercropping")

	assert.Equal(t, OutcomeResolved, r.Outcome)
	assert.Equal(t, knowledge.IntentIntercropping, r.Intent)
	assert.Equal(t, firstResponse(t, knowledge.IntentIntercropping), r.Text)
	assert.True(t, s.Idle())
}

func TestRespond_NoMatch(t *testing.T) {
	e := newTestEngine(t)
	for _, in := range []string{
		"zzzz kkkk",
		"qwerty zxcvb",
		"please book a flight to paris",
		"who won the football game",
		"play some jazz",
		"book a taxi to the airport",
	} {
		t.Run(in, func(t *testing.T) {
			s := NewSession()

			r := e.Respond(s, in)

			assert.Equal(t, MsgNoMatch, r.Text)
			assert.Equal(t, OutcomeNoMatch, r.Outcome)
			assert.Empty(t, r.Intent)
			assert.True(t, s.Idle())
		})
	}
}

func TestRespond_NearMissWordsDoNotResolveDisease(t *testing.T) {
	e := newTestEngine(t)
	for _, in := range []string{"step", "item", "foot", "roof"} {
		t.Run(in, func(t *testing.T) {
			r := e.Respond(NewSession(), in)

			assert.Empty(t, r.Entity)
			assert.NotContains(t, r.Text, "COMPREHENSIVE TREATMENT PROTOCOL")
		})
	}
}

func TestRespond_EverydayQuestionsKeepTheirTopic(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		in     string
		intent string
	}{
		{"what is the next step in planting", knowledge.IntentGeneral},
		{"how much water per foot of trunk", knowledge.IntentIrrigation},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := e.Respond(NewSession(), tt.in)

			assert.Equal(t, tt.intent, r.Intent)
			assert.Empty(t, r.Entity)
		})
	}
}

func TestRespond_ThresholdsAreConfigurable(t *testing.T) {
	e := NewEngine(knowledge.MustDefault(), WithThresholds(Thresholds{Generic: 101, Specific: 101, Direct: 101}))

	r := e.Respond(NewSession(), "hello")

	assert.Equal(t, OutcomeNoMatch, r.Outcome)
}

func TestHandleTurn_SeededEnginesAgree(t *testing.T) {
	kb := knowledge.MustDefault()
	a := NewEngine(kb, WithSeed(42))
	b := NewEngine(kb, WithSeed(42))
	greetings, _ := kb.Intent(knowledge.IntentGreeting)

	for i := 0; i < 10; i++ {
		got := a.HandleTurn(NewSession(), "hello")
		assert.Equal(t, got, b.HandleTurn(NewSession(), "hello"))
		assert.Contains(t, greetings.Responses, got)
	}
}

func TestHandleTurn_SessionsAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	farmerA, farmerB := NewSession(), NewSession()

	e.HandleTurn(farmerA, "when should i spray")
	e.HandleTurn(farmerB, "fertilizer advice")
	e.HandleTurn(farmerA, "temperature 30 humidity 75 rainfall 2 wind speed 8")

	assert.True(t, farmerA.Idle())
	assert.Equal(t, knowledge.IntentFertilizer, farmerB.Intent)
	assert.Empty(t, farmerB.Collected)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()
	s.Intent = knowledge.IntentHarvest
	s.Collected[extract.Rainfall] = extract.IntValue(0)
	s.Required = []extract.Name{extract.Rainfall, extract.Humidity}

	assert.Equal(t, []extract.Name{extract.Humidity}, s.Missing())

	s.Reset()
	assert.True(t, s.Idle())
	assert.Empty(t, s.Collected)
	assert.Nil(t, s.Required)
}
