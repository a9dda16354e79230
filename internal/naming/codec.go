package naming

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RawPrefix is the two-character instrument prefix every candidate
	// filename must carry.
	RawPrefix = "FA"

	// RawExtension is the required inbox extension. The match is
	// case-sensitive: FA150518.txt is not a candidate.
	RawExtension = ".TXT"

	// CanonicalPrefix is the controlled name prefix for staged raw files.
	CanonicalPrefix = "FACE_AUTO_RA_NEUTRON_R_"

	// ConverterIdentity names the external conversion script recorded in
	// the parent_filenames metadata of every derived artifact.
	ConverterIdentity = "FACE_SCRIPT_NEUTRON_TXT-TO-CSV.zip"

	canonicalExtension = ".txt"
	rawStageMarker     = "_R_"
	derivedStageMarker = "_L1_"
	derivedExtension   = ".csv"

	// Offsets of the date substrings inside a raw filename.
	dayStart   = 2
	monthStart = 4
	yearStart  = 6
	dateEnd    = 8
)

// ErrInvalidFormat reports a raw filename that cannot be decoded: it is
// missing the FA prefix or is too short for date substring extraction.
var ErrInvalidFormat = errors.New("filename does not match FADDMMYY convention")

// EmbeddedDate holds the date components exactly as they appear in a raw
// filename. The values are positional text, not validated numbers: a raw
// name encoding day "32" or a non-digit month passes through untouched.
type EmbeddedDate struct {
	Year  string // four characters, "20" + the two-digit year
	Month string // two characters
	Day   string // two characters
}

// DateRange spans the embedded date from midnight to one second before the
// following midnight, formatted as HIEv expects ("YYYY-MM-DD HH:MM:SS").
type DateRange struct {
	Start string
	End   string
}

// Match reports whether name fits the FADDMMYY.TXT inbox convention.
// Files that do not match are not candidates and are left untouched.
func Match(name string) bool {
	if !strings.HasPrefix(name, RawPrefix) {
		return false
	}
	if !strings.HasSuffix(name, RawExtension) {
		return false
	}
	return len(name) >= dateEnd+len(RawExtension)
}

// Decode extracts the embedded date from a raw filename. It fails with
// ErrInvalidFormat when the prefix is absent or the name is too short for
// the fixed-offset substrings; it never validates the extracted values.
func Decode(raw string) (EmbeddedDate, error) {
	if !strings.HasPrefix(raw, RawPrefix) {
		return EmbeddedDate{}, fmt.Errorf("%w: %q lacks %s prefix", ErrInvalidFormat, raw, RawPrefix)
	}
	if len(raw) < dateEnd {
		return EmbeddedDate{}, fmt.Errorf("%w: %q too short for date extraction", ErrInvalidFormat, raw)
	}
	return EmbeddedDate{
		Year:  "20" + raw[yearStart:dateEnd],
		Month: raw[monthStart:yearStart],
		Day:   raw[dayStart:monthStart],
	}, nil
}

// Canonical returns the controlled FACE name for a raw file,
// FACE_AUTO_RA_NEUTRON_R_YYYYMMDD.txt.
func Canonical(raw string) (string, error) {
	d, err := Decode(raw)
	if err != nil {
		return "", err
	}
	return CanonicalPrefix + d.Year + d.Month + d.Day + canonicalExtension, nil
}

// Derived returns the level-1 artifact name for a canonical raw name,
// swapping the stage marker and extension:
// FACE_AUTO_RA_NEUTRON_R_20180515.txt -> FACE_AUTO_RA_NEUTRON_L1_20180515.csv.
// Applying it to a name already in derived form is a no-op.
func Derived(canonical string) string {
	derived := strings.ReplaceAll(canonical, rawStageMarker, derivedStageMarker)
	return strings.ReplaceAll(derived, canonicalExtension, derivedExtension)
}

// Range returns the upload time window for a raw filename: the embedded
// date from 00:00:00 to 23:59:59.
func Range(raw string) (DateRange, error) {
	d, err := Decode(raw)
	if err != nil {
		return DateRange{}, err
	}
	day := d.Year + "-" + d.Month + "-" + d.Day
	return DateRange{
		Start: day + " 00:00:00",
		End:   day + " 23:59:59",
	}, nil
}
