// Package domain models earthquake records from the USGS summary feeds and
// the derived views a dashboard renders from them.
//
// # Data Source
//
// Records come from the USGS Earthquake Hazards Program CSV summary feeds,
// e.g. https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.csv.
// The feed has a header row and one event per line. Only these columns are
// read; all others are ignored:
//
//	id, mag, depth, latitude, longitude, place, time, gap, rms
//
// Column renames on ingestion: mag → magnitude, place → location.
//
// # Feed Conventions
//
// Time format:
//
//	ISO-8601 in UTC with milliseconds, e.g. "2024-05-01T12:34:56.789Z".
//	Integer epoch milliseconds are also accepted. The raw string is kept as
//	the record's time value; sorting by time compares the raw strings, which
//	for ISO-8601 UTC is chronological.
//
// Magnitude:
//
//	Mixed magnitude types (ml, md, mb, mww) in one column. Small local events
//	can be negative (e.g. -0.4 ml); negative values are valid.
//
// Depth is in kilometers. Shallow events near the surface can report small
// negative depths (above the geoid); those are valid too.
//
// gap (azimuthal gap, degrees) and rms (travel-time residual, seconds) are
// frequently blank for automatic solutions. Blank or unparseable values
// become 0.
//
// # Validity
//
// A row becomes a [Record] only when magnitude, depth, latitude and
// longitude parse as finite numbers and both place and time are present,
// with time parseable as a date. Everything else is rejected silently by
// [Normalize]; [NormalizeRow] reports the reason for diagnostics.
//
// # Views
//
// The normalized set is an immutable [Snapshot]. Views never modify it:
// [Project] computes a table page, [ProjectChart] the capped scatter points,
// [Summarize] the statistics panel. [SelectionStore] is the one mutable cell
// shared by every view.
package domain
