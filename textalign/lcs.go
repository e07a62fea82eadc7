package textalign

import "github.com/golang/glog"

// WeightedLCS is the dynamic-programming weighted longest-common-
// subsequence solver, generalized from the teacher's dm.WeightedLCS
// (itself operating on an opaque "Atom" similarity function) to Item's
// Equal method directly (similarity is 0 or 1; this package doesn't need
// fractional similarity, unlike the teacher's line-diff use of near-miss
// scoring).
func WeightedLCS(a, b []Item) []Match {
	aLen, bLen := len(a), len(b)
	table := make([][]float32, aLen+1)
	for i := range table {
		table[i] = make([]float32, bLen+1)
	}

	for i := 0; i < aLen; i++ {
		for j := 0; j < bLen; j++ {
			maxNonSimilar := max32(table[i][j+1], table[i+1][j])
			if a[i].Equal(b[j]) {
				table[i+1][j+1] = max32(1+table[i][j], maxNonSimilar)
			} else {
				table[i+1][j+1] = maxNonSimilar
			}
		}
	}

	var result []Match
	for i, j := aLen, bLen; i != 0 && j != 0; {
		switch {
		case table[i][j] == table[i-1][j]:
			i--
		case table[i][j] == table[i][j-1]:
			j--
		default:
			i--
			j--
			result = append(result, Match{AIndex: i, BIndex: j})
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	glog.V(2).Infof("textalign: WeightedLCS found %d matches over %dx%d", len(result), aLen, bLen)
	return result
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
