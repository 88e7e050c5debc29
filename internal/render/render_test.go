package render

import (
	"strings"
	"testing"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertInOrder checks that every marker appears in out, each after the previous one.
func assertInOrder(t *testing.T, out string, markers ...string) {
	t.Helper()
	pos := 0
	for _, m := range markers {
		i := strings.Index(out[pos:], m)
		require.GreaterOrEqualf(t, i, 0, "%q not found after offset %d in:\n%s", m, pos, out)
		pos += i + len(m)
	}
}

func TestDisease_SectionOrder(t *testing.T) {
	kb := knowledge.MustDefault()
	d, ok := kb.Disease("bud_rot")
	require.True(t, ok)

	out := Disease(d, d.Protocol)

	assert.True(t, strings.HasPrefix(out, "**BUD ROT - COMPREHENSIVE TREATMENT PROTOCOL**"))
	assertInOrder(t, out,
		"**Disease Description:**", d.Description,
		"**Urgency Level:** HIGH - Immediate action required to save the tree.",
		"**Recommended Fungicides:**", "• 1% Bordeaux mixture",
		"**Cultural Practices:**",
		"**Preventive Measures:**",
		"**Application Instructions:**", "• Spray 100-250 ml", "• Pre-monsoon",
		"• Nutrition: ", "• Post-harvest: ",
		"**Additional Notes:**", weatherNote,
	)
}

func TestDisease_EmptyListsOmitted(t *testing.T) {
	out := Disease(knowledge.Disease{Key: "x_y"}, knowledge.Protocol{Urgency: "LOW"})

	assert.NotContains(t, out, "Recommended Fungicides")
	assert.NotContains(t, out, "Nutrition:")
	assert.Contains(t, out, "• Follow label recommendations")
	assert.Contains(t, out, "• Apply during favorable weather")
}

func TestDiagnosis_Variants(t *testing.T) {
	kb := knowledge.MustDefault()

	healthy := Diagnosis(advisor.Diagnose(kb, "Healthy_Leaf"))
	assert.Contains(t, healthy, "**HEALTHY LEAF**")
	assert.Contains(t, healthy, "No treatment required.")

	known := Diagnosis(advisor.Diagnose(kb, "Mahali_Koleroga"))
	assert.Contains(t, known, "MAHALI KOLEROGA - COMPREHENSIVE TREATMENT PROTOCOL")

	unknown := Diagnosis(advisor.Diagnose(kb, "leaf curl"))
	assert.Contains(t, unknown, "LEAF CURL - GENERAL TREATMENT PROTOCOL")
	assert.Contains(t, unknown, "LOW - Information not specific enough.")
}

func TestPesticide_Excellent(t *testing.T) {
	a := advisor.Pesticide(advisor.PesticideInput{Temperature: 30, Humidity: 75, Rainfall: 2, WindSpeed: 8})
	out := Pesticide(a)

	assertInOrder(t, out,
		"**WEATHER-BASED PESTICIDE RECOMMENDATION**",
		"**Spray Conditions: EXCELLENT**",
		"**Detailed Weather Analysis:**",
		"• Temperature: 30°C Optimal",
		"• Humidity: 75% Good",
		"• Rainfall: 2mm Safe",
		"• Wind Speed: 8kmph Suitable",
		"**Application Recommendations:**",
		"**Dosage Multiplier:** 1.10x standard rate",
		"**Sprayability Score:** 100%",
		"**Optimal Timing:** "+advisor.TimingRain,
		"**Action Plan:**", "• Proceed with spraying",
		"**Safety Reminders:**", "• Wear protective equipment",
	)
}

func TestPesticide_Poor(t *testing.T) {
	a := advisor.Pesticide(advisor.PesticideInput{Temperature: 38, Humidity: 90, Rainfall: 12, WindSpeed: 20})
	out := Pesticide(a)

	assert.Contains(t, out, "**Spray Conditions: POOR**")
	assert.Contains(t, out, "• Temperature: 38°C Suboptimal")
	assert.Contains(t, out, "• Humidity: 90% Challenging")
	assert.Contains(t, out, "• Rainfall: 12mm Wait")
	assert.Contains(t, out, "• Wind Speed: 20kmph Risky")
	assert.Contains(t, out, "0.80x standard rate")
	assert.Contains(t, out, "• Postpone spraying")
}

func TestFertilizer_SectionOrder(t *testing.T) {
	in := advisor.DefaultFertilizerInput()
	in.PH = 5.5
	in.OrganicMatter = 1.5
	in.Rainfall = 120
	out := Fertilizer(advisor.Fertilizer(in))

	assertInOrder(t, out,
		"**PRECISION FERTILIZER RECOMMENDATION SYSTEM**",
		"**Calculated NPK Requirements:**",
		"**Nitrogen (N):** 110.0g per palm",
		"**Phosphorus (P₂O₅):** 35.2g per palm",
		"**Potassium (K₂O):** 138.6g per palm",
		"**Weather-Adjusted Application Rate:** 0.80x base rate",
		"**Current Conditions Analysis:**",
		"Humidity: 70% - Nutrient mobility: High",
		"Rainfall: 120mm - Leaching risk: High",
		"**Soil Condition Assessment:**",
		"pH Level: 5.5 - Needs adjustment",
		"Organic Matter: 1.5% - Low, consider amendments",
		"**Optimal Application Timing:** "+advisor.FertTimingHighRain,
		"**Actionable Advice:**",
	)
}

func TestHarvest_SectionOrder(t *testing.T) {
	out := Harvest(advisor.Harvest(advisor.DefaultHarvestInput()))

	assertInOrder(t, out,
		"**ARECANUT HARVEST PREDICTION**",
		"**Estimated Days to Harvest:** **45 days**",
		"Confidence Level: **MEDIUM**",
		"**Current Conditions Impact:**",
		"• Fruit Maturity: 70%",
		"**Expected Quality Factor:** **1.0**",
		"**Harvesting Recommendations:**",
		"**Action Plan:** "+advisor.HarvestMonitor,
		"**Market Advice:** "+advisor.HarvestMarketTip,
		"**Pro Tips:**",
	)
}

func TestScheme_PresentFieldsOnly(t *testing.T) {
	kb := knowledge.MustDefault()
	s, ok := kb.Scheme("national_horticulture_mission")
	require.True(t, ok)

	out := Scheme(s)

	assertInOrder(t, out,
		"**NATIONAL HORTICULTURE MISSION (NHM)**",
		"**Type:** Central Sector Scheme",
		"**Support/Benefit:** Subsidies",
		"**Focus:** Promotion",
		"**ಕನ್ನಡದಲ್ಲಿ:** ",
	)
	assert.NotContains(t, out, "**Objective:**")
	assert.NotContains(t, out, "**Region:**")
}

func TestSchemeList(t *testing.T) {
	kb := knowledge.MustDefault()
	out := SchemeList(kb.Schemes())

	assert.True(t, strings.HasPrefix(out, "**AVAILABLE GOVERNMENT SCHEMES FOR ARECANUT FARMERS:**"))
	assert.Equal(t, len(kb.Schemes()), strings.Count(out, "\n• "))
	assertInOrder(t, out,
		"• National Horticulture Mission (NHM)",
		"• State-Level Plantation Crop Development (e.g., Meghalaya)",
		"To get more details about a specific scheme",
	)
}

func TestWeatherTips(t *testing.T) {
	out := WeatherTips([]string{"a", "b"})
	assert.Equal(t, "**ARECANUT CULTIVATION TIPS FOR CURRENT WEATHER**\n\n• a\n• b", out)
}

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "30", num(30))
	assert.Equal(t, "5.5", num(5.5))
	assert.Equal(t, "100.0", decimal(100))
	assert.Equal(t, "42.2", decimal(42.2))
}
