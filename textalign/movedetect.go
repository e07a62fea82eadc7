package textalign

import "sort"

// span is a half-open [lo, hi) range of indices, mirroring the teacher's
// FileRange concept but stripped down to the bare index pair since
// textalign has no file/line metadata to carry along.
type span struct {
	lo, hi int
}

func (s span) length() int { return s.hi - s.lo }

// findGaps locates the runs of indices on each side left unmatched by
// matches, generalizing dm.FindGapsInRangePair. matches must be sorted by
// AIndex. One gap per side is returned for every slot before, between and
// after the matches, possibly empty, so aGaps[i] and bGaps[i] are the
// corresponding gaps of slot i.
func findGaps(aLen, bLen int, matches []Match) (aGaps, bGaps []span) {
	aCursor, bCursor := 0, 0
	for _, m := range matches {
		aGaps = append(aGaps, span{aCursor, m.AIndex})
		bGaps = append(bGaps, span{bCursor, m.BIndex})
		aCursor = m.AIndex + 1
		bCursor = m.BIndex + 1
	}
	aGaps = append(aGaps, span{aCursor, aLen})
	bGaps = append(bGaps, span{bCursor, bLen})
	return aGaps, bGaps
}

// moveCandidate is the generalization of dm.MoveCandidate2: a proposed
// alignment between an A-side gap and a non-corresponding B-side gap,
// scored by how much of each gap it covers (extent) and by how far apart
// the two gaps are (distance), favoring nearby, high-coverage matches over
// distant, partial ones.
type moveCandidate struct {
	aGapIndex, bGapIndex int
	aGap, bGap           span
	lcsMatches           []Match // indices relative to the gaps, not yet offset
	score                float64
}

func (c *moveCandidate) setScore(bLen int) {
	aExtent, bExtent := len(c.lcsMatches), len(c.lcsMatches)
	_ = bExtent
	// aExtent and bExtent are identical counts by construction (one LCS
	// match consumes one item from each gap), but kept as separate names
	// to mirror the teacher's AExtent()/BExtent() split, which differs
	// when similarity scoring allows partial-credit matches.
	var lesserExtent, totalExtent float64
	lesserExtent = float64(aExtent)
	totalExtent = float64(c.aGap.length() + c.bGap.length())
	if totalExtent == 0 {
		c.score = 0
		return
	}
	extentScore := extentCurve.compute(lesserExtent * 2 / totalExtent)

	var distance float64
	if c.aGapIndex < c.bGapIndex {
		distance = float64(c.bGap.lo - c.aGap.hi)
	} else {
		distance = float64(c.aGap.lo - c.bGap.hi)
	}
	normalizedDistance := distance * 100 / float64(bLen+1)
	distanceScore := distanceCurve.compute(-normalizedDistance)

	lcsScore := lesserExtent / maxFloat(1, totalExtent/2)
	c.score = lcsScore * extentScore * distanceScore
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// detectMoves generalizes dm.PerformMoveDetectionInGaps: given the matches
// already found by patience anchoring and LCS, it looks for further
// matches hiding in the leftover gaps on each side -- items that moved far
// enough that they landed outside the window the initial alignment
// considered contiguous.
func detectMoves(a, b []Item, matches []Match) []Match {
	sorted := append([]Match(nil), matches...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].AIndex < sorted[j].AIndex })

	aGaps, bGaps := findGaps(len(a), len(b), sorted)
	if len(aGaps) == 0 || len(bGaps) == 0 {
		return nil
	}

	var candidates []*moveCandidate
	for i, aGap := range aGaps {
		if aGap.length() == 0 {
			continue
		}
		for j, bGap := range bGaps {
			if bGap.length() == 0 || i == j {
				continue
			}
			aItems := a[aGap.lo:aGap.hi]
			bItems := b[bGap.lo:bGap.hi]
			lcs := WeightedLCS(aItems, bItems)
			if len(lcs) == 0 {
				continue
			}
			candidates = append(candidates, &moveCandidate{
				aGapIndex:  i,
				bGapIndex:  j,
				aGap:       aGap,
				bGap:       bGap,
				lcsMatches: lcs,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		c.setScore(len(b))
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	usedA := make(map[int]bool)
	usedB := make(map[int]bool)
	var result []Match
	for _, c := range candidates {
		overlaps := false
		for _, m := range c.lcsMatches {
			if usedA[c.aGap.lo+m.AIndex] || usedB[c.bGap.lo+m.BIndex] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		for _, m := range c.lcsMatches {
			ai, bi := c.aGap.lo+m.AIndex, c.bGap.lo+m.BIndex
			usedA[ai] = true
			usedB[bi] = true
			result = append(result, Match{AIndex: ai, BIndex: bi})
		}
	}
	return result
}
