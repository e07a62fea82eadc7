package textalign

import "sort"

// findRareAnchors generalizes the teacher's FindRareLinesInRanges (the
// Patience Diff building block, maxCount==1 meaning "unique in both
// ranges") from hashed file lines to Item signatures: items whose
// signature occurs exactly once in a and exactly once in b are reliable
// anchors, because any alignment that doesn't match them to each other
// would have to match one of them to something with a different
// signature.
func findRareAnchors(a, b []Item) (aPos, bPos []int) {
	aCount := make(map[string][]int)
	for i, it := range a {
		aCount[it.Signature()] = append(aCount[it.Signature()], i)
	}
	bCount := make(map[string][]int)
	for i, it := range b {
		bCount[it.Signature()] = append(bCount[it.Signature()], i)
	}
	for sig, aIdxs := range aCount {
		if len(aIdxs) != 1 {
			continue
		}
		bIdxs, ok := bCount[sig]
		if !ok || len(bIdxs) != 1 {
			continue
		}
		aPos = append(aPos, aIdxs[0])
		bPos = append(bPos, bIdxs[0])
	}
	return aPos, bPos
}

// patienceAnchors runs Bram Cohen's Patience Diff over the rare-anchor
// positions: sort the pairs by a-position, then find the longest strictly
// increasing subsequence of b-positions (patience sort, same as the
// teacher's dm.PatienceDiff). The result is a set of non-crossing anchor
// matches that any faithful alignment must respect.
func patienceAnchors(a, b []Item) []Match {
	aPos, bPos := findRareAnchors(a, b)
	if len(aPos) == 0 {
		return nil
	}
	pairs := make([]Match, len(aPos))
	for i := range aPos {
		pairs[i] = Match{AIndex: aPos[i], BIndex: bPos[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].AIndex < pairs[j].AIndex })

	lis := longestIncreasingSubsequence(pairs)
	sort.Slice(lis, func(i, j int) bool { return lis[i].AIndex < lis[j].AIndex })
	return lis
}

// longestIncreasingSubsequence finds the longest run of pairs whose
// BIndex values are strictly increasing in AIndex order, via patience
// sort's classic pile-and-backpointer technique: O(n log n).
func longestIncreasingSubsequence(pairs []Match) []Match {
	if len(pairs) == 0 {
		return nil
	}
	// pileTops[k] = index into pairs of the smallest-BIndex tail of any
	// increasing run of length k+1 seen so far.
	pileTops := make([]int, 0, len(pairs))
	predecessor := make([]int, len(pairs))
	for i := range predecessor {
		predecessor[i] = -1
	}

	for i, p := range pairs {
		lo, hi := 0, len(pileTops)
		for lo < hi {
			mid := (lo + hi) / 2
			if pairs[pileTops[mid]].BIndex < p.BIndex {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			predecessor[i] = pileTops[lo-1]
		}
		if lo == len(pileTops) {
			pileTops = append(pileTops, i)
		} else {
			pileTops[lo] = i
		}
	}

	if len(pileTops) == 0 {
		return nil
	}
	result := make([]Match, 0, len(pileTops))
	for i := pileTops[len(pileTops)-1]; i != -1; i = predecessor[i] {
		result = append(result, pairs[i])
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}
