package types

import "time"

const (
	// DefaultOutDir is the output root used when no --out is given.
	DefaultOutDir = "./salidas"

	// DefaultMaxPagination is the sanity ceiling for "X de Y" page totals.
	DefaultMaxPagination = 20

	// DefaultLookahead is how many pages past a header page the banner
	// fallback inspects.
	DefaultLookahead = 10
)

// SegmentConfig holds the block segmenter knobs.
type SegmentConfig struct {
	// MaxPagination rejects pagination candidates whose total exceeds it (default 20).
	MaxPagination int `json:"max_pagination" yaml:"max_pagination"`

	// Lookahead bounds the banner-repetition fallback (default 10).
	Lookahead int `json:"lookahead" yaml:"lookahead"`
}

// WithDefaults fills zero values with the package defaults.
func (c SegmentConfig) WithDefaults() SegmentConfig {
	if c.MaxPagination <= 0 {
		c.MaxPagination = DefaultMaxPagination
	}
	if c.Lookahead <= 0 {
		c.Lookahead = DefaultLookahead
	}
	return c
}

// SplitConfig holds settings for one split run.
type SplitConfig struct {
	SegmentConfig `yaml:",inline"`

	// OutDir is the root of the per-certificate directory tree.
	OutDir string `json:"out" yaml:"out"`

	// Plate optionally restricts the export to certificates for one vehicle.
	Plate string `json:"plate" yaml:"plate"`

	// KeepGoing records a failed block and moves on instead of aborting the run.
	KeepGoing bool `json:"keep_going" yaml:"keep_going"`

	// Disambiguate suffixes the plate directory with the block number when two
	// blocks derive the same directory. Off means last write wins.
	Disambiguate bool `json:"disambiguate" yaml:"disambiguate"`
}

// WatchConfig holds settings for inbox watching.
type WatchConfig struct {
	// Inbox is the directory scanned for new PDF files.
	Inbox string `json:"inbox" yaml:"inbox"`

	// InitialScan processes PDFs already present when the watch starts.
	InitialScan bool `json:"initial_scan" yaml:"initial_scan"`

	// Debounce coalesces bursts of write events for the same file (default 2s).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// IndexConfig points at the optional SQLite manifest.
type IndexConfig struct {
	// Path is the database file; empty disables indexing.
	Path string `json:"index_db" yaml:"index_db"`

	// MaxResults is the default query limit (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
