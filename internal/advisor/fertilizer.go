package advisor

import (
	"math"

	"github.com/alexanderramin/arecabot/internal/extract"
)

// Base annual dose for a bearing palm, grams per palm.
const (
	baseNitrogen   = 100.0
	basePhosphorus = 40.0
	basePotassium  = 140.0
)

// Fertilizer timing advice.
const (
	FertTimingSplit    = "Apply in 2 split doses: Post-monsoon (Sep-Oct) and Pre-summer (Feb)."
	FertTimingHighRain = "Consider smaller, more frequent applications due to high rainfall."
	FertTimingDry      = "Ensure immediate irrigation after application to dissolve fertilizers."
)

type FertilizerInput struct {
	Temperature   float64
	Humidity      float64
	Rainfall      float64
	PH            float64
	OrganicMatter float64
	GrowthStage   string
	Season        string
}

// DefaultFertilizerInput is used for any value that was never supplied.
// Humidity does not affect the dose; it is carried for the report.
func DefaultFertilizerInput() FertilizerInput {
	return FertilizerInput{
		Temperature:   28,
		Humidity:      70,
		Rainfall:      50,
		PH:            6.5,
		OrganicMatter: 3.0,
		GrowthStage:   extract.StageMature,
		Season:        extract.SeasonPostMonsoon,
	}
}

// FertilizerInputFrom reads soil and weather parameters, falling back to defaults.
func FertilizerInputFrom(p extract.Params) FertilizerInput {
	d := DefaultFertilizerInput()
	return FertilizerInput{
		Temperature:   p.Real(extract.Temperature, d.Temperature),
		Humidity:      p.Real(extract.Humidity, d.Humidity),
		Rainfall:      p.Real(extract.Rainfall, d.Rainfall),
		PH:            p.Real(extract.PH, d.PH),
		OrganicMatter: p.Real(extract.OrganicMatter, d.OrganicMatter),
		GrowthStage:   p.Text(extract.GrowthStage, d.GrowthStage),
		Season:        p.Text(extract.Season, d.Season),
	}
}

// NPK is a per-palm annual dose in grams.
type NPK struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

type FertilizerAdvice struct {
	Input           FertilizerInput
	NPK             NPK
	ApplicationRate float64
	Timing          string
}

// Fertilizer computes the NPK dose. Stage, pH and organic matter multipliers
// compound in that order; values are rounded to one decimal place.
func Fertilizer(in FertilizerInput) FertilizerAdvice {
	n, p, k := baseNitrogen, basePhosphorus, basePotassium

	switch in.GrowthStage {
	case extract.StageSeedling, extract.StageJuvenile:
		n *= 0.5
		p *= 0.5
		k *= 0.5
	case extract.StageFlowering:
		p *= 1.2
		k *= 1.1
	case extract.StageFruiting:
		k *= 1.3
		n *= 1.1
	}

	switch {
	case in.PH < 6.0:
		p *= 0.8
		k *= 0.9
	case in.PH > 7.5:
		n *= 0.9
		p *= 0.9
	}

	switch {
	case in.OrganicMatter < 2.0:
		n *= 1.1
		p *= 1.1
		k *= 1.1
	case in.OrganicMatter > 5.0:
		n *= 0.9
	}

	rate := 1.0
	timing := FertTimingSplit
	switch {
	case in.Rainfall > 100:
		rate *= 0.8
		timing = FertTimingHighRain
	case in.Rainfall < 10:
		timing = FertTimingDry
	}
	if in.Temperature < 20 || in.Temperature > 35 {
		rate *= 0.9
	}

	return FertilizerAdvice{
		Input:           in,
		NPK:             NPK{Nitrogen: round(n, 1), Phosphorus: round(p, 1), Potassium: round(k, 1)},
		ApplicationRate: rate,
		Timing:          timing,
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
