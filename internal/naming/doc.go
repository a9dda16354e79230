// Package naming derives controlled FACE filenames and timestamp ranges
// from raw neutron probe filenames.
//
// Raw files arrive named FADDMMYY.TXT (e.g. FA150518.TXT for 15 May 2018).
// The decode is a best-effort positional substring extraction at fixed
// offsets, matching the historical behaviour of the ingest tooling: the
// two-digit year is prefixed with "20" and nothing is validated against a
// calendar, so a filename carrying day "32" produces a date label with day
// "32". Callers must treat the result as an opaque label, not a validated
// date.
//
// All functions are pure and deterministic.
package naming
