package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDateLabel(t *testing.T) {
	today := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		dateKey string
		want    string
	}{
		{"2024-03-10", LabelToday},
		{"2024-03-11", LabelTomorrow},
		{"2024-03-12", "2024-03-12"},
		{"2024-03-09", "2024-03-09"},
		{"not-a-date", "not-a-date"},
	}

	for _, tc := range tests {
		t.Run(tc.dateKey, func(t *testing.T) {
			assert.Equal(t, tc.want, RelativeDateLabel(tc.dateKey, today))
		})
	}
}

func TestRelativeDateLabel_MonthBoundary(t *testing.T) {
	today := time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, LabelToday, RelativeDateLabel("2024-02-29", today))
	assert.Equal(t, LabelTomorrow, RelativeDateLabel("2024-03-01", today))
}

func TestRelativeDateLabel_UsesTodaysLocation(t *testing.T) {
	// 2024-03-10 23:00 in UTC-5 is already 2024-03-11 in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	today := time.Date(2024, time.March, 10, 23, 0, 0, 0, loc)
	assert.Equal(t, LabelToday, RelativeDateLabel("2024-03-10", today))
	assert.Equal(t, LabelTomorrow, RelativeDateLabel("2024-03-11", today))
}

func TestWeatherGlyph(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Clear", "☀️"},
		{"clouds", "☁️"},
		{"Rain", "🌧️"},
		{"DRIZZLE", "🌦️"},
		{"Thunderstorm", "⛈️"},
		{"Snow", "❄️"},
		{"Mist", "🌫️"},
		{"Smoke", "🌫️"},
		{"Haze", "🌫️"},
		{"Dust", "🌫️"},
		{"Fog", "🌫️"},
		{"Sand", "🌫️"},
		{"Ash", "🌫️"},
		{"Squall", "🌫️"},
		{"Tornado", "🌫️"},
		{"Volcano", ""},
		{"", ""},
		{"rainy", ""},
	}

	for _, tc := range tests {
		t.Run(tc.category, func(t *testing.T) {
			assert.Equal(t, tc.want, WeatherGlyph(tc.category))
		})
	}

	assert.Equal(t, WeatherGlyph("rain"), WeatherGlyph("RAIN"))
}
