// Package advisor holds the deterministic agronomic scoring functions behind
// every detailed recommendation. Nothing here keeps state.
package advisor

import "github.com/alexanderramin/arecabot/internal/extract"

// GenericPesticide is the product label attached to every spray advice.
const GenericPesticide = "General broad-spectrum for common pests"

// Spray timing advice.
const (
	TimingDefault   = "Optimal: Early morning or late afternoon."
	TimingRain      = "Avoid spraying if rain is imminent or occurring."
	TimingWindCalms = "Consider spraying when wind calms."
)

// SprayStatus buckets a sprayability score.
type SprayStatus string

const (
	SprayExcellent SprayStatus = "EXCELLENT"
	SprayModerate  SprayStatus = "MODERATE"
	SprayPoor      SprayStatus = "POOR"
)

type PesticideInput struct {
	Temperature float64 // °C
	Humidity    float64 // %
	Rainfall    float64 // mm
	WindSpeed   float64 // km/h
}

// DefaultPesticideInput is used for any reading that was never supplied.
func DefaultPesticideInput() PesticideInput {
	return PesticideInput{Temperature: 25, Humidity: 70, Rainfall: 0, WindSpeed: 5}
}

// PesticideInputFrom reads weather parameters, falling back to defaults.
func PesticideInputFrom(p extract.Params) PesticideInput {
	d := DefaultPesticideInput()
	return PesticideInput{
		Temperature: p.Real(extract.Temperature, d.Temperature),
		Humidity:    p.Real(extract.Humidity, d.Humidity),
		Rainfall:    p.Real(extract.Rainfall, d.Rainfall),
		WindSpeed:   p.Real(extract.WindSpeed, d.WindSpeed),
	}
}

type PesticideAdvice struct {
	Input            PesticideInput
	Sprayability     float64 // 0..1
	DosageMultiplier float64
	Timing           string
	Pesticide        string
}

// Status classifies the sprayability score.
func (a PesticideAdvice) Status() SprayStatus {
	switch {
	case a.Sprayability > 0.7:
		return SprayExcellent
	case a.Sprayability > 0.4:
		return SprayModerate
	default:
		return SprayPoor
	}
}

// Pesticide scores how favourable the weather is for spraying. Each banded
// factor multiplies into the score independently.
func Pesticide(in PesticideInput) PesticideAdvice {
	factors := []func(PesticideInput) float64{
		temperatureSprayFactor,
		humiditySprayFactor,
		rainfallSprayFactor,
		windSprayFactor,
	}
	sprayability := 1.0
	for _, f := range factors {
		sprayability *= f(in)
	}

	dosage := 1.0
	switch {
	case sprayability < 0.6:
		dosage = 0.8
	case sprayability > 0.85:
		dosage = 1.1
	}

	return PesticideAdvice{
		Input:            in,
		Sprayability:     sprayability,
		DosageMultiplier: dosage,
		Timing:           sprayTiming(in),
		Pesticide:        GenericPesticide,
	}
}

// temperatureSprayFactor penalises anything outside 20-35 °C by 0.7. The
// documented milder 15-20 / 35-40 °C band (0.85) is deliberately not applied:
// the advisory checks the outer band first, which covers it, so 17 °C and
// 38 °C both score 0.7.
func temperatureSprayFactor(in PesticideInput) float64 {
	if in.Temperature < 20 || in.Temperature > 35 {
		return 0.7
	}
	return 1.0
}

func humiditySprayFactor(in PesticideInput) float64 {
	switch {
	case in.Humidity < 40 || in.Humidity > 85:
		return 0.75
	case in.Humidity > 80:
		return 0.9
	}
	return 1.0
}

func rainfallSprayFactor(in PesticideInput) float64 {
	switch {
	case in.Rainfall > 10:
		return 0.3
	case in.Rainfall >= 5:
		return 0.6
	}
	return 1.0
}

func windSprayFactor(in PesticideInput) float64 {
	switch {
	case in.WindSpeed > 15:
		return 0.5
	case in.WindSpeed >= 10:
		return 0.8
	}
	return 1.0
}

// sprayTiming gives rain advice precedence over wind advice.
func sprayTiming(in PesticideInput) string {
	switch {
	case in.Rainfall > 0:
		return TimingRain
	case in.WindSpeed > 10:
		return TimingWindCalms
	default:
		return TimingDefault
	}
}
