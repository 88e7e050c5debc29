package advisor

import "time"

// WeatherReading is an already-resolved weather snapshot handed in by the
// weather collaborator. NextDaysRain holds daily precipitation totals (mm)
// for the coming days, today first.
type WeatherReading struct {
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Precipitation float64   `json:"precipitation"`
	WindSpeed     float64   `json:"wind_speed"`
	NextDaysRain  []float64 `json:"next_days_rain,omitempty"`
}

const tipStable = "Weather conditions are stable - Continue regular monitoring and maintenance of your arecanut plantation."

// WeatherTips derives cultivation tips from the current weather. month is the
// calendar month used for the harvest-season tip.
func WeatherTips(w WeatherReading, month time.Month) []string {
	var tips []string

	switch {
	case w.Temperature > 35:
		tips = append(tips, "High temperature alert - Provide shade nets for young arecanut plants and increase irrigation frequency.")
	case w.Temperature < 15:
		tips = append(tips, "Low temperature warning - Protect young plants from cold damage and reduce watering.")
	}

	switch {
	case w.Humidity > 80:
		tips = append(tips, "High humidity detected - Watch for fungal diseases like leaf blight and stem rot. Ensure good drainage.")
	case w.Humidity < 40:
		tips = append(tips, "Low humidity - Increase irrigation and consider mulching to retain soil moisture.")
	}

	switch {
	case w.Precipitation > 10:
		tips = append(tips, "Heavy rainfall expected - Check drainage systems and avoid fertilizer application to prevent nutrient loss.")
	case w.Precipitation > 5:
		tips = append(tips, "Moderate rain expected - Good for arecanut growth, but monitor for waterlogging in low-lying areas.")
	case w.Precipitation == 0 && w.Temperature > 30:
		tips = append(tips, "Dry conditions - Increase irrigation frequency, especially for flowering and fruiting trees.")
	}

	if w.WindSpeed > 30 {
		tips = append(tips, "Strong winds expected - Secure young plants and check for potential damage to mature trees.")
	}
	if w.Humidity > 70 && w.Temperature > 25 {
		tips = append(tips, "Disease alert - High humidity and temperature create favorable conditions for fungal diseases. Apply preventive fungicides.")
	}
	if w.Temperature > 28 && w.Humidity > 60 {
		tips = append(tips, "Pest monitoring - Warm and humid conditions may increase pest activity. Check for red palm weevil and rhinoceros beetle.")
	}
	if heavyRainAhead(w.NextDaysRain, 3, 20) {
		tips = append(tips, "Reduce irrigation - Heavy rain expected in coming days, adjust watering schedule accordingly.")
	}
	if harvestMonth(month) && w.Precipitation < 5 {
		tips = append(tips, "Harvesting season - Dry weather is favorable for harvesting mature nuts. Check for optimal ripeness.")
	}
	if w.Temperature >= 20 && w.Temperature <= 32 && w.Humidity >= 60 && w.Humidity <= 80 {
		tips = append(tips, "Optimal growing conditions - Perfect weather for arecanut cultivation. Continue regular care practices.")
	}

	if len(tips) == 0 {
		tips = append(tips, tipStable)
	}
	return tips
}

func heavyRainAhead(days []float64, window int, threshold float64) bool {
	for i, mm := range days {
		if i >= window {
			break
		}
		if mm > threshold {
			return true
		}
	}
	return false
}

func harvestMonth(m time.Month) bool {
	switch m {
	case time.November, time.December, time.January, time.February:
		return true
	}
	return false
}
