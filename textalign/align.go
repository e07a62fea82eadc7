package textalign

import (
	"sort"

	"github.com/golang/glog"
)

// Align generalizes the teacher's overall diff pipeline (dm.diffState's
// commonPrefix/commonSuffix trimming, followed by patience anchoring,
// followed by weighted LCS over the remaining gaps, optionally followed by
// move detection) from comparing two files' lines to comparing two
// sibling lists' Items. The returned matches are disjoint in both
// coordinates and sorted by AIndex.
func Align(a, b []Item, cfg Config) []Match {
	prefixLen := commonPrefixLength(a, b)
	suffixLen := commonSuffixLength(a[prefixLen:], b[prefixLen:])

	aMid := a[prefixLen : len(a)-suffixLen]
	bMid := b[prefixLen : len(b)-suffixLen]

	var matches []Match
	for i := 0; i < prefixLen; i++ {
		matches = append(matches, Match{AIndex: i, BIndex: i})
	}

	midMatches := alignMiddle(aMid, bMid)
	for _, m := range midMatches {
		matches = append(matches, Match{AIndex: prefixLen + m.AIndex, BIndex: prefixLen + m.BIndex})
	}

	aSuffixStart, bSuffixStart := len(a)-suffixLen, len(b)-suffixLen
	for i := 0; i < suffixLen; i++ {
		matches = append(matches, Match{AIndex: aSuffixStart + i, BIndex: bSuffixStart + i})
	}

	if cfg.EnableMoveDetection {
		moveMatches := detectMoves(a, b, matches)
		if len(moveMatches) > 0 {
			glog.V(1).Infof("textalign: move detection added %d matches", len(moveMatches))
			matches = append(matches, moveMatches...)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].AIndex < matches[j].AIndex })
	glog.V(1).Infof("textalign: Align found %d matches over %dx%d items", len(matches), len(a), len(b))
	return matches
}

// alignMiddle runs patience anchoring to find reliable stepping stones,
// then fills the gaps between (and around) them with weighted LCS --
// mirroring the teacher's two-tier strategy of preferring unique anchors
// over a single global LCS pass, which is prohibitively sensitive to
// unrelated coincidental matches in large inputs.
func alignMiddle(a, b []Item) []Match {
	anchors := patienceAnchors(a, b)
	if len(anchors) == 0 {
		return WeightedLCS(a, b)
	}

	var result []Match
	aCursor, bCursor := 0, 0
	for _, anchor := range anchors {
		if anchor.AIndex > aCursor || anchor.BIndex > bCursor {
			gapMatches := WeightedLCS(a[aCursor:anchor.AIndex], b[bCursor:anchor.BIndex])
			for _, m := range gapMatches {
				result = append(result, Match{AIndex: aCursor + m.AIndex, BIndex: bCursor + m.BIndex})
			}
		}
		result = append(result, anchor)
		aCursor, bCursor = anchor.AIndex+1, anchor.BIndex+1
	}
	if aCursor < len(a) || bCursor < len(b) {
		tailMatches := WeightedLCS(a[aCursor:], b[bCursor:])
		for _, m := range tailMatches {
			result = append(result, Match{AIndex: aCursor + m.AIndex, BIndex: bCursor + m.BIndex})
		}
	}
	return result
}

// commonPrefixLength generalizes dm.MatchCommonPrefix: the run of leading
// items that are pairwise equal needs no alignment algorithm at all.
func commonPrefixLength(a, b []Item) int {
	n := 0
	for n < len(a) && n < len(b) && a[n].Equal(b[n]) {
		n++
	}
	return n
}

// commonSuffixLength generalizes dm.MatchCommonSuffix, operating on
// whatever remains after the common prefix has been stripped by the
// caller.
func commonSuffixLength(a, b []Item) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n].Equal(b[len(b)-1-n]) {
		n++
	}
	return n
}
