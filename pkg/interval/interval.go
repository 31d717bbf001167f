package interval

import (
	"sort"
	"time"
)

// Span is a half-open time interval [Start, End).
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open spans share any instant.
func (s Span) Overlaps(other Span) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Contains reports whether [start, end) lies fully inside the span.
func (s Span) Contains(start, end time.Time) bool {
	return !start.Before(s.Start) && !end.After(s.End)
}

// Merge sorts the spans by start time and coalesces overlapping or touching
// spans into a minimal ascending, non-overlapping sequence.
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := sorted[:1]
	for _, span := range sorted[1:] {
		last := &merged[len(merged)-1]
		if span.Start.After(last.End) {
			merged = append(merged, span)
			continue
		}
		if span.End.After(last.End) {
			last.End = span.End
		}
	}
	return merged
}

// Covers reports whether [start, end) is contained in the given ascending,
// non-overlapping spans, treating gaps and boundary overruns of at most
// tolerance as covered. It binary-searches for the span whose start is the
// greatest value not after start, then extends over contiguous spans whose
// gaps stay within tolerance. Any larger gap fails closed.
func Covers(spans []Span, start, end time.Time, tolerance time.Duration) bool {
	if len(spans) == 0 {
		return false
	}
	if !start.After(spans[0].Start.Add(-tolerance)) {
		return false
	}
	if !end.Before(spans[len(spans)-1].End.Add(tolerance)) {
		return false
	}

	idx := sort.Search(len(spans), func(i int) bool { return spans[i].Start.After(start) }) - 1
	if idx < 0 {
		// start precedes the first span start by less than tolerance.
		idx = 0
	}
	for i := idx; i < len(spans); i++ {
		if !spans[i].End.Before(end.Add(-tolerance)) {
			return true
		}
		if i+1 == len(spans) || spans[i+1].Start.Sub(spans[i].End) > tolerance {
			return false
		}
	}
	return false
}
