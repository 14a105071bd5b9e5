package extraction

import (
	"cmp"
	"slices"
)

// Merge folds b into a.
//
// b is ignored when it is less confident than a. Otherwise each key of b is
// copied when a lacks it, and overwrites a's value only when b is strictly
// more confident. The result carries the higher confidence; its source is
// that of the strictly more confident set.
func Merge(a, b Parameters) Parameters {
	if b.confidence < a.confidence {
		return a
	}

	out := a.clone()
	improved := b.confidence > a.confidence
	for k, v := range b.values {
		if _, ok := out.values[k]; !ok || improved {
			out.values[k] = v
		}
	}
	if improved || (a.IsEmpty() && a.source == SourceUnknown) {
		out.confidence = b.confidence
		out.source = b.source
	}
	return out
}

// MergeAll reduces candidates into one set. Candidates are folded in
// ascending confidence order, keeping the given order among equal
// confidences, so the result does not depend on evaluation order except
// that equal confidence collisions keep the earliest value. Empty
// candidates are skipped.
func MergeAll(candidates ...Parameters) Parameters {
	nonEmpty := make([]Parameters, 0, len(candidates))
	for _, c := range candidates {
		if !c.IsEmpty() {
			nonEmpty = append(nonEmpty, c)
		}
	}
	slices.SortStableFunc(nonEmpty, func(x, y Parameters) int {
		return cmp.Compare(x.confidence, y.confidence)
	})

	merged := NewParameters(SourceUnknown, 0, nil)
	for _, c := range nonEmpty {
		merged = Merge(merged, c)
	}
	return merged
}
