package domain

import (
	"strings"
	"time"
)

const (
	LabelToday    = "Today"
	LabelTomorrow = "Tomorrow"
)

// hazeGlyph is shared by every obscured-visibility category.
const hazeGlyph = "🌫️"

var weatherGlyphs = map[string]string{
	"clear":        "☀️",
	"clouds":       "☁️",
	"rain":         "🌧️",
	"drizzle":      "🌦️",
	"thunderstorm": "⛈️",
	"snow":         "❄️",
	"mist":         hazeGlyph,
	"smoke":        hazeGlyph,
	"haze":         hazeGlyph,
	"dust":         hazeGlyph,
	"fog":          hazeGlyph,
	"sand":         hazeGlyph,
	"ash":          hazeGlyph,
	"squall":       hazeGlyph,
	"tornado":      hazeGlyph,
}

// RelativeDateLabel returns "Today" or "Tomorrow" when dateKey matches today's
// date or the following one, and dateKey unchanged otherwise. today is read in
// its own location.
func RelativeDateLabel(dateKey string, today time.Time) string {
	switch dateKey {
	case today.Format(time.DateOnly):
		return LabelToday
	case today.AddDate(0, 0, 1).Format(time.DateOnly):
		return LabelTomorrow
	default:
		return dateKey
	}
}

// WeatherGlyph maps a weather category to its display glyph, ignoring case.
// Unknown categories map to "".
func WeatherGlyph(category string) string {
	return weatherGlyphs[strings.ToLower(category)]
}
