package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// feedHeader is the column order of the USGS summary CSV.
var feedHeader = []string{
	"time", "latitude", "longitude", "depth", "mag", "magType", "nst", "gap",
	"dmin", "rms", "net", "id", "updated", "place", "type", "horizontalError",
	"depthError", "magError", "magNst", "status", "locationSource", "magSource",
}

// mockLatest is the timestamp of the newest generated event.
var mockLatest = time.Date(2024, time.May, 1, 23, 59, 0, 0, time.UTC)

type region struct {
	name     string
	net      string
	lat, lon float64
	deep     bool
}

var mockRegions = []region{
	{name: "Willow, Alaska", net: "ak", lat: 61.73, lon: -150.01},
	{name: "Kodiak Island, Alaska", net: "ak", lat: 57.42, lon: -154.23},
	{name: "The Geysers, CA", net: "nc", lat: 38.82, lon: -122.81},
	{name: "Ridgecrest, CA", net: "ci", lat: 35.70, lon: -117.50},
	{name: "Volcano, Hawaii", net: "hv", lat: 19.41, lon: -155.28},
	{name: "Tonopah, Nevada", net: "nn", lat: 38.07, lon: -117.23},
	{name: "Fairview, Oklahoma", net: "ok", lat: 36.45, lon: -98.77},
	{name: "Indios, Puerto Rico", net: "pr", lat: 17.95, lon: -66.82},
	{name: "Miyako, Japan", net: "us", lat: 40.20, lon: 142.12, deep: true},
	{name: "Valparaíso, Chile", net: "us", lat: -33.29, lon: -71.99, deep: true},
}

var compass = []string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// mockOptions controls the synthetic feed.
type mockOptions struct {
	Rows int
	Seed uint64
	// BadEvery makes every k-th row invalid when > 0, cycling through the
	// rejection kinds the normalizer reports.
	BadEvery int
}

// badRows each corrupt one column of an otherwise valid row, in the order
// mag, latitude, place, time, depth, longitude.
var badRows = []func(row []string){
	func(row []string) { row[4] = "" },
	func(row []string) { row[1] = "" },
	func(row []string) { row[13] = "" },
	func(row []string) { row[0] = "yesterday" },
	func(row []string) { row[3] = "NaN" },
	func(row []string) { row[2] = "n/a" },
}

// writeMockFeed writes a deterministic USGS-shaped CSV to w. The same
// options always produce the same bytes.
func writeMockFeed(w io.Writer, opts mockOptions) error {
	if opts.Rows < 0 {
		return errors.New("rows must not be negative")
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	cw := csv.NewWriter(w)
	if err := cw.Write(feedHeader); err != nil {
		return err
	}

	at := mockLatest
	bad := 0
	for i := range opts.Rows {
		at = at.Add(-time.Duration(30+rng.IntN(600)) * time.Second)
		row := mockRow(rng, i, at)
		if opts.BadEvery > 0 && (i+1)%opts.BadEvery == 0 {
			badRows[bad%len(badRows)](row)
			bad++
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func mockRow(rng *rand.Rand, i int, at time.Time) []string {
	reg := mockRegions[rng.IntN(len(mockRegions))]

	lat := reg.lat + rng.Float64()*0.6 - 0.3
	lon := reg.lon + rng.Float64()*0.6 - 0.3
	mag := math.Min(-0.5+rng.ExpFloat64()*1.3, 7.9)
	depth := rng.Float64() * 25
	magType := "ml"
	if reg.deep {
		depth = 10 + rng.Float64()*150
		mag = math.Max(mag, 4)
		magType = "mb"
	}
	status := "automatic"
	if mag >= 4 {
		status = "reviewed"
	}

	id := fmt.Sprintf("%s%05d%04x", reg.net, i, rng.IntN(1<<16))
	place := fmt.Sprintf("%d km %s of %s", 1+rng.IntN(80), compass[rng.IntN(len(compass))], reg.name)
	updated := at.Add(time.Duration(2+rng.IntN(120)) * time.Minute)

	return []string{
		at.Format("2006-01-02T15:04:05.000Z"),
		fixed(lat, 4),
		fixed(lon, 4),
		fixed(depth, 2),
		fixed(mag, 2),
		magType,
		strconv.Itoa(5 + rng.IntN(60)),
		strconv.Itoa(20 + rng.IntN(200)),
		fixed(rng.Float64()*2, 3),
		fixed(rng.Float64(), 2),
		reg.net,
		id,
		updated.Format("2006-01-02T15:04:05.000Z"),
		place,
		"earthquake",
		fixed(rng.Float64()*5, 2),
		fixed(rng.Float64()*3, 2),
		fixed(rng.Float64()*0.3, 3),
		strconv.Itoa(3 + rng.IntN(40)),
		status,
		reg.net,
		reg.net,
	}
}

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func newGenmockCmd() *cobra.Command {
	var (
		opts mockOptions
		out  string
	)

	cmd := &cobra.Command{
		Use:   "genmock",
		Short: "Write a synthetic earthquake feed CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" || out == "-" {
				return writeMockFeed(cmd.OutOrStdout(), opts)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := writeMockFeed(f, opts); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ wrote %d rows to %s\n", opts.Rows, out)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", 200, "number of data rows")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.BadEvery, "bad-every", 0, "make every k-th row invalid (0 disables)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path, - or empty for stdout")
	return cmd
}
