package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form embedded in artifact filenames.
const DateLayout = "20060102"

const (
	// DumpSuffix is the extension of the transient uncompressed dump.
	DumpSuffix = ".sql"
	// ArtifactSuffix is the extension of a finished compressed artifact.
	ArtifactSuffix = ".sql.gz"
)

// Artifact is one compressed backup of one database on one calendar
// date. The date has day granularity; time of day never matters.
type Artifact struct {
	Database string
	Date     time.Time
}

// Name returns the canonical artifact filename, {database}_{YYYYMMDD}.sql.gz.
// External tooling restores from this name directly, so it must not change.
func (a Artifact) Name() string {
	return a.Database + "_" + a.Date.Format(DateLayout) + ArtifactSuffix
}

// DumpName returns the filename of the transient uncompressed dump the
// artifact is built from.
func (a Artifact) DumpName() string {
	return a.Database + "_" + a.Date.Format(DateLayout) + DumpSuffix
}

// ParseArtifactDate extracts the calendar date embedded in an artifact
// filename: the substring after the last underscore with the .sql.gz
// suffix stripped, parsed as YYYYMMDD. The embedded date is the sole
// retention key; callers must treat a parse failure as "not an
// artifact", never as a reason to abort a sweep.
func ParseArtifactDate(name string) (time.Time, error) {
	if !strings.HasSuffix(name, ArtifactSuffix) {
		return time.Time{}, fmt.Errorf("%q does not end in %s", name, ArtifactSuffix)
	}
	base := strings.TrimSuffix(name, ArtifactSuffix)
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return time.Time{}, fmt.Errorf("%q has no date component", name)
	}
	date, err := time.Parse(DateLayout, base[idx+1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date in %q: %w", name, err)
	}
	return date, nil
}

// RetentionWindow is the number of days an artifact is kept in a store
// before becoming eligible for deletion. Local and remote stores carry
// independent windows.
type RetentionWindow struct {
	Days int
}

// Expired reports whether an artifact dated date should be deleted as
// of today: true iff date is strictly before today minus the window,
// compared at day granularity. Both sides are reduced to their
// calendar date, so the zone today was observed in cannot shift the
// boundary.
func (w RetentionWindow) Expired(date, today time.Time) bool {
	cutoff := truncateToDay(today).AddDate(0, 0, -w.Days)
	return truncateToDay(date).Before(cutoff)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
