package model

import "slices"

// Status describes what happened to a single candidate file.
type Status int

const (
	// StatusGenerated indicates a generated file was written.
	StatusGenerated Status = iota
	// StatusUnchanged indicates the file had no placeholders and was left alone.
	StatusUnchanged
	// StatusPreview indicates the output was rendered but not written (dry run).
	StatusPreview
	// StatusFailed indicates the file could not be processed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusUnchanged:
		return "unchanged"
	case StatusPreview:
		return "preview"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult holds the outcome of processing one candidate file.
type FileResult struct {
	Source Path
	// RelSource is Source relative to the scan root, when known.
	RelSource    Path
	Generated    Path
	Status       Status
	Placeholders int
	// Sources records where each resolved key came from, keyed by its spelling in the file.
	Sources map[string]ValueSource
	// Original and Rendered are only populated for previews.
	Original string
	Rendered string
	Err      error
}

// KeysFrom returns the resolved keys that came from source, sorted.
func (r FileResult) KeysFrom(source ValueSource) []string {
	var keys []string
	for key, src := range r.Sources {
		if src == source {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys
}

// RunSummary aggregates the results of one batch.
type RunSummary struct {
	Root    Path
	DryRun  bool
	Results []FileResult
}

// Count returns how many results carry the given status.
func (r RunSummary) Count(status Status) int {
	n := 0

	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}

	return n
}
