package advisor

import (
	"math"

	"github.com/alexanderramin/arecabot/internal/extract"
)

// Harvest recommendation text.
const (
	HarvestMonitor   = "Monitor fruit color (turning yellow/orange) and firmness. Harvest in batches."
	HarvestInitiate  = "Initiate harvest! Fruits are nearing optimal maturity."
	HarvestImmature  = "Nuts are still immature. Continue monitoring."
	HarvestMarketTip = "Consider market demand for tender vs. ripe nuts."
)

// Confidence of a harvest estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

type HarvestInput struct {
	FruitMaturity float64 // %
	Temperature   float64
	Rainfall      float64
	Humidity      float64
	TreeAge       float64 // years
}

func DefaultHarvestInput() HarvestInput {
	return HarvestInput{FruitMaturity: 70, Temperature: 28, Rainfall: 50, Humidity: 80, TreeAge: 10}
}

// HarvestInputFrom reads harvest parameters, falling back to defaults.
func HarvestInputFrom(p extract.Params) HarvestInput {
	d := DefaultHarvestInput()
	return HarvestInput{
		FruitMaturity: p.Real(extract.FruitMaturity, d.FruitMaturity),
		Temperature:   p.Real(extract.Temperature, d.Temperature),
		Rainfall:      p.Real(extract.Rainfall, d.Rainfall),
		Humidity:      p.Real(extract.Humidity, d.Humidity),
		TreeAge:       p.Real(extract.TreeAge, d.TreeAge),
	}
}

type HarvestAdvice struct {
	Input          HarvestInput
	EstimatedDays  int
	Confidence     Confidence
	QualityFactor  float64
	Recommendation string
	MarketTiming   string
}

// Harvest predicts days until harvest. The maturity bands at the end override
// the weather-adjusted estimate: ripe fruit subtracts ten days, immature
// fruit is re-estimated from scratch at two days per missing percent.
func Harvest(in HarvestInput) HarvestAdvice {
	days := (100 - in.FruitMaturity) * 1.5
	quality := 1.0

	if in.Temperature < 20 || in.Temperature > 35 {
		days *= 1.1
	}
	if in.Rainfall > 100 {
		days *= 0.9
	}
	if in.Humidity < 60 {
		quality *= 0.9
	}
	if in.TreeAge > 15 {
		days *= 0.95
		quality *= 1.05
	}

	rec := HarvestMonitor
	switch {
	case in.FruitMaturity >= 90:
		days = math.Max(0, days-10)
		rec = HarvestInitiate
		quality *= 1.1
	case in.FruitMaturity < 60:
		rec = HarvestImmature
		days = (100 - in.FruitMaturity) * 2.0
	}

	conf := ConfidenceMedium
	if in.FruitMaturity >= 80 {
		conf = ConfidenceHigh
	}

	return HarvestAdvice{
		Input:          in,
		EstimatedDays:  int(math.Ceil(days)),
		Confidence:     conf,
		QualityFactor:  round(quality, 2),
		Recommendation: rec,
		MarketTiming:   HarvestMarketTip,
	}
}
