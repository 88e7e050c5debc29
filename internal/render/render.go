// Package render turns knowledge records and advisor results into the
// multi-section plain-text replies shown to farmers. Headings use **bold**
// markers; list items use "• " bullets.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/knowledge"
)

const bullet = "• "

const weatherNote = "For precise weather-based application timing, provide current weather data (temperature, humidity, rainfall, wind speed)."

// Disease renders the full treatment protocol for a disease record.
func Disease(d knowledge.Disease, p knowledge.Protocol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s - COMPREHENSIVE TREATMENT PROTOCOL**\n\n", strings.ToUpper(d.DisplayName()))
	if d.Description != "" {
		fmt.Fprintf(&b, "**Disease Description:**\n%s\n\n", d.Description)
	}
	writeProtocol(&b, p)
	return b.String()
}

func writeProtocol(b *strings.Builder, p knowledge.Protocol) {
	fmt.Fprintf(b, "**Urgency Level:** %s\n\n", p.Urgency)
	writeList(b, "Recommended Fungicides", p.Fungicides)
	writeList(b, "Cultural Practices", p.CulturalPractices)
	writeList(b, "Preventive Measures", p.Preventive)

	b.WriteString("**Application Instructions:**\n")
	b.WriteString(bullet + orDefault(p.Dosage, "Follow label recommendations") + "\n")
	b.WriteString(bullet + orDefault(p.Timing, "Apply during favorable weather") + "\n")
	if p.Nutrition != "" {
		b.WriteString(bullet + "Nutrition: " + p.Nutrition + "\n")
	}
	if p.PostHarvest != "" {
		b.WriteString(bullet + "Post-harvest: " + p.PostHarvest + "\n")
	}
	b.WriteString("\n**Additional Notes:**\n" + weatherNote)
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n", heading)
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bullet + item)
	}
	b.WriteString("\n\n")
}

// Diagnosis renders a classifier-label lookup: a healthy-tissue notice, the
// disease protocol, or the general protocol for a label with no record.
func Diagnosis(d advisor.Diagnosis) string {
	switch {
	case d.Label.Healthy:
		return Healthy(d.Label.Part)
	case d.Known:
		return Disease(d.Disease, d.Protocol)
	}
	var b strings.Builder
	name := strings.ReplaceAll(d.Label.Key, "_", " ")
	fmt.Fprintf(&b, "**%s - GENERAL TREATMENT PROTOCOL**\n\n", strings.ToUpper(name))
	fmt.Fprintf(&b, "No specific record for '%s'. General guidance follows.\n\n", name)
	writeProtocol(&b, d.Protocol)
	return b.String()
}

// Healthy renders the notice for a healthy classifier label.
func Healthy(part string) string {
	if part == "" {
		part = "plant"
	}
	return fmt.Sprintf("**HEALTHY %s**\n\nNo signs of disease or pest infestation detected on the %s.\n\nNo treatment required.",
		strings.ToUpper(part), part)
}

// Pesticide renders weather-based spray advice.
func Pesticide(a advisor.PesticideAdvice) string {
	in := a.Input
	var b strings.Builder
	b.WriteString("**WEATHER-BASED PESTICIDE RECOMMENDATION**\n\n")
	fmt.Fprintf(&b, "**Spray Conditions: %s**\n\n", a.Status())

	b.WriteString("**Detailed Weather Analysis:**\n")
	fmt.Fprintf(&b, "%sTemperature: %s°C %s\n", bullet, num(in.Temperature),
		pick(in.Temperature >= 20 && in.Temperature <= 35, "Optimal", "Suboptimal"))
	fmt.Fprintf(&b, "%sHumidity: %s%% %s\n", bullet, num(in.Humidity),
		pick(in.Humidity >= 40 && in.Humidity <= 80, "Good", "Challenging"))
	fmt.Fprintf(&b, "%sRainfall: %smm %s\n", bullet, num(in.Rainfall),
		pick(in.Rainfall < 5, "Safe", "Wait"))
	fmt.Fprintf(&b, "%sWind Speed: %skmph %s\n\n", bullet, num(in.WindSpeed),
		pick(in.WindSpeed < 15, "Suitable", "Risky"))

	b.WriteString("**Application Recommendations:**\n")
	fmt.Fprintf(&b, "%s**Dosage Multiplier:** %.2fx standard rate\n", bullet, a.DosageMultiplier)
	fmt.Fprintf(&b, "%s**Sprayability Score:** %d%%\n", bullet, int(a.Sprayability*100))
	fmt.Fprintf(&b, "%s**Optimal Timing:** %s\n\n", bullet, a.Timing)

	b.WriteString("**Action Plan:**\n")
	switch a.Status() {
	case advisor.SprayExcellent:
		writeBullets(&b, "Proceed with spraying", "Use recommended dosage", "Monitor for effectiveness")
	case advisor.SprayModerate:
		writeBullets(&b, "Spray with caution", "Consider adjusting timing", "Monitor weather changes")
	default:
		writeBullets(&b, "Postpone spraying", "Wait for better conditions", "Protect equipment from weather")
	}

	b.WriteString("\n\n**Safety Reminders:**\n")
	writeBullets(&b, "Wear protective equipment", "Avoid spraying during peak sun hours", "Ensure proper coverage without wastage")
	return b.String()
}

// Fertilizer renders an NPK recommendation with the conditions behind it.
func Fertilizer(a advisor.FertilizerAdvice) string {
	in := a.Input
	var b strings.Builder
	b.WriteString("**PRECISION FERTILIZER RECOMMENDATION SYSTEM**\n\n")

	b.WriteString("**Calculated NPK Requirements:**\n")
	fmt.Fprintf(&b, "%s**Nitrogen (N):** %sg per palm\n", bullet, decimal(a.NPK.Nitrogen))
	fmt.Fprintf(&b, "%s**Phosphorus (P₂O₅):** %sg per palm\n", bullet, decimal(a.NPK.Phosphorus))
	fmt.Fprintf(&b, "%s**Potassium (K₂O):** %sg per palm\n\n", bullet, decimal(a.NPK.Potassium))

	fmt.Fprintf(&b, "**Weather-Adjusted Application Rate:** %.2fx base rate\n\n", a.ApplicationRate)

	b.WriteString("**Current Conditions Analysis:**\n")
	fmt.Fprintf(&b, "%sTemperature: %s°C - %s\n", bullet, num(in.Temperature),
		pick(in.Temperature >= 20 && in.Temperature <= 35, "Optimal uptake", "Reduced efficiency"))
	fmt.Fprintf(&b, "%sHumidity: %s%% - Nutrient mobility: %s\n", bullet, num(in.Humidity),
		pick(in.Humidity >= 60, "High", "Moderate"))
	fmt.Fprintf(&b, "%sRainfall: %smm - Leaching risk: %s\n\n", bullet, num(in.Rainfall),
		pick(in.Rainfall > 50, "High", "Low"))

	b.WriteString("**Soil Condition Assessment:**\n")
	fmt.Fprintf(&b, "%spH Level: %s - %s\n", bullet, num(in.PH),
		pick(in.PH >= 6.0 && in.PH <= 7.5, "Ideal", "Needs adjustment"))
	fmt.Fprintf(&b, "%sOrganic Matter: %s%% - %s\n\n", bullet, num(in.OrganicMatter),
		pick(in.OrganicMatter >= 2, "Good", "Low, consider amendments"))

	fmt.Fprintf(&b, "**Optimal Application Timing:** %s\n\n", a.Timing)

	b.WriteString("**Actionable Advice:**\n")
	writeBullets(&b,
		"Consider a soil test if NPK levels are estimates.",
		"Split application for better nutrient absorption, especially in sandy soils.",
		"Incorporate organic matter to improve soil health and nutrient retention.",
	)
	return b.String()
}

// Harvest renders a harvest timing prediction.
func Harvest(a advisor.HarvestAdvice) string {
	in := a.Input
	var b strings.Builder
	b.WriteString("**ARECANUT HARVEST PREDICTION**\n\n")
	fmt.Fprintf(&b, "**Estimated Days to Harvest:** **%d days**\n", a.EstimatedDays)
	fmt.Fprintf(&b, "Confidence Level: **%s**\n\n", a.Confidence)

	b.WriteString("**Current Conditions Impact:**\n")
	fmt.Fprintf(&b, "%sFruit Maturity: %s%%\n", bullet, num(in.FruitMaturity))
	fmt.Fprintf(&b, "%sTemperature: %s°C\n", bullet, num(in.Temperature))
	fmt.Fprintf(&b, "%sRainfall: %smm\n", bullet, num(in.Rainfall))
	fmt.Fprintf(&b, "%sHumidity: %s%%\n\n", bullet, num(in.Humidity))

	fmt.Fprintf(&b, "**Expected Quality Factor:** **%s**\n\n", decimal(a.QualityFactor))

	b.WriteString("**Harvesting Recommendations:**\n")
	fmt.Fprintf(&b, "%s**Action Plan:** %s\n", bullet, a.Recommendation)
	fmt.Fprintf(&b, "%s**Market Advice:** %s\n\n", bullet, a.MarketTiming)

	b.WriteString("**Pro Tips:**\n")
	writeBullets(&b,
		"Monitor fruit color and firmness regularly.",
		"Plan for labor and transportation well in advance.",
		"Consider post-harvest processing options to maximize value.",
	)
	return b.String()
}

// Scheme renders one scheme with its present optional fields.
func Scheme(s knowledge.Scheme) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", strings.ToUpper(s.Name))
	for _, f := range s.Fields() {
		fmt.Fprintf(&b, "**%s:** %s\n", f.Label, f.Value)
	}
	if s.Kannada != "" {
		fmt.Fprintf(&b, "\n**ಕನ್ನಡದಲ್ಲಿ:** %s", s.Kannada)
	}
	return b.String()
}

// SchemeList renders the names of all schemes with a follow-up hint.
func SchemeList(schemes []knowledge.Scheme) string {
	var b strings.Builder
	b.WriteString("**AVAILABLE GOVERNMENT SCHEMES FOR ARECANUT FARMERS:**\n\n")
	for _, s := range schemes {
		b.WriteString(bullet + s.Name + "\n")
	}
	b.WriteString("\nTo get more details about a specific scheme, please ask me its name (e.g., 'Tell me about the National Horticulture Mission').")
	return b.String()
}

// WeatherTips renders cultivation tips for the current weather.
func WeatherTips(tips []string) string {
	var b strings.Builder
	b.WriteString("**ARECANUT CULTIVATION TIPS FOR CURRENT WEATHER**\n\n")
	writeBullets(&b, tips...)
	return b.String()
}

func writeBullets(b *strings.Builder, items ...string) {
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bullet + item)
	}
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// num prints a measured value the way it was given: 30 stays 30, 5.5 stays 5.5.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decimal always keeps a fractional part: 100 prints as 100.0.
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
