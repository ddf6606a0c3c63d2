package timeframe

import "github.com/mlachev/coinsync/internal/model"

// Align restricts two series to the timestamps present in both, preserving
// each series' ascending order. The returned series have equal length and
// pairwise-identical timestamps. If either input is empty, both inputs are
// returned unmodified.
func Align(a, b model.Series) (model.Series, model.Series) {
	if len(a) == 0 || len(b) == 0 {
		return a, b
	}

	inA := timestamps(a)
	inB := timestamps(b)

	alignedA := make(model.Series, 0, min(len(a), len(b)))
	for _, p := range a {
		if _, ok := inB[p.UnixMs]; ok {
			alignedA = append(alignedA, p)
		}
	}

	alignedB := make(model.Series, 0, len(alignedA))
	for _, p := range b {
		if _, ok := inA[p.UnixMs]; ok {
			alignedB = append(alignedB, p)
		}
	}

	return alignedA, alignedB
}

func timestamps(s model.Series) map[int64]struct{} {
	set := make(map[int64]struct{}, len(s))
	for _, p := range s {
		set[p.UnixMs] = struct{}{}
	}
	return set
}
