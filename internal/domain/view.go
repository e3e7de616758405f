package domain

import (
	"fmt"
	"time"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// DigestView is the presentation-ready digest: each day carries its relative
// label and glyph, computed against an explicit "today".
type DigestView struct {
	Location Location   `json:"location"`
	Days     []DayView  `json:"days"`
	Crisis   CrisisView `json:"crisis"`
}

// DayView flattens one DailyForecast for display.
type DayView struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	Time        string  `json:"time"`
	Glyph       string  `json:"glyph"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	IconURL     string  `json:"icon_url,omitempty"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
}

// CrisisView keeps "no signal" and "signal with zero events" distinguishable.
type CrisisView struct {
	Active bool          `json:"active"`
	Events []CrisisEvent `json:"events"`
}

// IconURL returns the remote icon address for an icon code, or "" for none.
func IconURL(iconCode string) string {
	if iconCode == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, iconCode)
}

// NewDigestView renders an AggregationResult relative to today.
func NewDigestView(loc Location, result AggregationResult, today time.Time) DigestView {
	days := make([]DayView, 0, len(result.DailyForecasts))
	for _, d := range result.DailyForecasts {
		r := d.Representative
		days = append(days, DayView{
			Date:        d.DateKey,
			Label:       RelativeDateLabel(d.DateKey, today),
			Time:        TimeOfDay(r.Timestamp),
			Glyph:       WeatherGlyph(r.WeatherCategory),
			Category:    r.WeatherCategory,
			Description: r.WeatherDescription,
			IconURL:     IconURL(r.IconCode),
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Pressure:    r.Pressure,
			WindSpeed:   r.WindSpeed,
		})
	}

	crisis := CrisisView{Events: []CrisisEvent{}}
	if result.Crisis != nil {
		crisis.Active = true
		crisis.Events = append(crisis.Events, result.Crisis.Events...)
	}

	return DigestView{Location: loc, Days: days, Crisis: crisis}
}
