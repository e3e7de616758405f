// Command genmock writes a deterministic synthetic forecast feed in the
// upstream /weather shape, plus the digest the pipeline produces for it. It
// uses the actual domain package so the digest fixture matches real pipeline
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -start "2024-04-26 15:00:00" \
//	  -feed-out data/mock/forecast_feed_240426.json \
//	  -digest-out data/mock/forecast_digest_240426.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/jonboulle/clockwork"
)

const sampleInterval = 3 * time.Hour

type condition struct {
	main        string
	description string
	icon        string
}

var conditions = []condition{
	{"Clear", "clear sky", "01"},
	{"Clouds", "scattered clouds", "03"},
	{"Clouds", "broken clouds", "04"},
	{"Rain", "light rain", "10"},
	{"Thunderstorm", "thunderstorm with rain", "11"},
	{"Rain", "moderate rain", "10"},
	{"Clouds", "overcast clouds", "04"},
	{"Mist", "mist", "50"},
}

// Output types mirror the upstream JSON field names.
type feedOut struct {
	Cod          string               `json:"cod"`
	Cnt          int                  `json:"cnt"`
	List         []itemOut            `json:"list"`
	City         cityOut              `json:"city"`
	CrisisMode   bool                 `json:"crisis_mode"`
	CrisisEvents []domain.CrisisEvent `json:"crisis_events,omitempty"`
}

type itemOut struct {
	Dt      int64        `json:"dt"`
	Main    mainOut      `json:"main"`
	Weather []weatherOut `json:"weather"`
	Wind    windOut      `json:"wind"`
	DtTxt   string       `json:"dt_txt"`
}

type mainOut struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Pressure float64 `json:"pressure"`
}

type weatherOut struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type windOut struct {
	Speed float64 `json:"speed"`
}

type cityOut struct {
	Name  string   `json:"name"`
	Coord coordOut `json:"coord"`
}

type coordOut struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	start := flag.String("start", "2024-04-26 15:00:00", "timestamp of the first sample")
	count := flag.Int("count", 40, "number of three-hourly samples")
	name := flag.String("name", "Fort Worth", "city name")
	lat := flag.Float64("lat", 32.7555, "latitude")
	lon := flag.Float64("lon", -97.3308, "longitude")
	crisis := flag.Bool("crisis", true, "raise the crisis indicator")
	feedOutPath := flag.String("feed-out", "", "output path for the raw feed fixture")
	digestOutPath := flag.String("digest-out", "", "output path for the expected digest fixture")
	flag.Parse()

	if *feedOutPath == "" || *digestOutPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -feed-out, -digest-out")
	}

	first, err := time.Parse(time.DateTime, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(first.Add(-30 * time.Minute)))
	defer domain.SetClock(nil)

	feed := buildFeed(first, *count, *name, *lat, *lon, *crisis)

	raw, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	parsed, err := domain.ParseFeed(raw)
	if err != nil {
		return fmt.Errorf("parse generated feed: %w", err)
	}
	digest, err := domain.NewDigestEvent(parsed, "")
	if err != nil {
		return fmt.Errorf("digest generated feed: %w", err)
	}

	if err := writeJSON(*feedOutPath, feed); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d samples)", *feedOutPath, len(feed.List))

	if err := writeJSON(*digestOutPath, digest); err != nil {
		return fmt.Errorf("writing digest fixture: %w", err)
	}
	log.Printf("wrote digest fixture: %s", *digestOutPath)

	printStats(digest)
	return nil
}

// buildFeed cycles through the condition table so every day gets a different
// midday category.
func buildFeed(first time.Time, count int, name string, lat, lon float64, crisis bool) feedOut {
	items := make([]itemOut, 0, count)
	for i := range count {
		ts := first.Add(time.Duration(i) * sampleInterval)
		c := conditions[(i*5+i/8+2)%len(conditions)]
		daytime := ts.Hour() >= 6 && ts.Hour() < 18

		suffix, nightDrop := "n", 4.0
		if daytime {
			suffix, nightDrop = "d", 0
		}

		items = append(items, itemOut{
			Dt: ts.Unix(),
			Main: mainOut{
				Temp:     round2(12 + 8*float64((i*7)%10)/10 - nightDrop),
				Humidity: float64(55 + (i*13)%40),
				Pressure: float64(1004 + (i*3)%14),
			},
			Weather: []weatherOut{{Main: c.main, Description: c.description, Icon: c.icon + suffix}},
			Wind:    windOut{Speed: round2(2 + float64((i*11)%60)/10)},
			DtTxt:   ts.Format(time.DateTime),
		})
	}

	out := feedOut{
		Cod:        "200",
		Cnt:        len(items),
		List:       items,
		City:       cityOut{Name: name, Coord: coordOut{Lat: lat, Lon: lon}},
		CrisisMode: crisis,
	}
	if crisis {
		out.CrisisEvents = []domain.CrisisEvent{
			{Time: first.Add(sampleInterval).Format("2006-01-02 15:04"), Condition: "Severe Thunderstorm Warning"},
			{Time: first.Add(10 * sampleInterval).Format("2006-01-02 15:04"), Condition: "Tornado Watch"},
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(digest domain.DigestEvent) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Key: %s\n", digest.Key)
	fmt.Printf("Days: %d\n", len(digest.Result.DailyForecasts))
	for _, d := range digest.Result.DailyForecasts {
		r := d.Representative
		fmt.Printf("  %s  %s  %-12s %s\n", d.DateKey, domain.TimeOfDay(r.Timestamp), r.WeatherCategory, r.IconCode)
	}
	if digest.Result.Crisis != nil {
		fmt.Printf("Crisis events: %d\n", len(digest.Result.Crisis.Events))
	} else {
		fmt.Println("Crisis: none")
	}
}
