// Command quakectl renders the earthquake dashboard views in the terminal
// and ships feed diagnostics.
//
// Usage:
//
//	quakectl summary --file data/mock/all_month_sample.csv
//	quakectl table --search alaska --sort depth --asc --page 2
//	quakectl chart --x latitude --y magnitude --limit 20
//	quakectl validate --url https://earthquake.usgs.gov/.../all_month.csv
//	quakectl genmock --rows 500 --seed 7 --bad-every 25 -o feed.csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}
