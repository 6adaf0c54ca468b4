package metrics

import (
	"fmt"
	"slices"

	"copytrade-analyzer/internal/types"
)

// RankMethod selects how tied ROI values are ranked.
type RankMethod string

const (
	// RankDense gives ties the same rank and the next ROI the next integer.
	RankDense RankMethod = "dense"
	// RankAverage gives ties the mean of the positions they span.
	RankAverage RankMethod = "average"
	RankMin     RankMethod = "min"
	RankMax     RankMethod = "max"
	// RankFirst breaks ties by table order.
	RankFirst RankMethod = "first"
)

func ParseRankMethod(s string) (RankMethod, error) {
	switch m := RankMethod(s); m {
	case RankDense, RankAverage, RankMin, RankMax, RankFirst:
		return m, nil
	case "":
		return RankDense, nil
	default:
		return "", fmt.Errorf("unknown rank method %q", s)
	}
}

// byROI returns the indices of rows ordered by ROI descending. Equal ROI keep
// table order.
func byROI(rows []types.AccountMetrics) []int {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case rows[a].ROI > rows[b].ROI:
			return -1
		case rows[a].ROI < rows[b].ROI:
			return 1
		default:
			return 0
		}
	})
	return idx
}

// Rank sets Rank on every row, 1 being the highest ROI.
func Rank(rows []types.AccountMetrics, method RankMethod) {
	idx := byROI(rows)
	dense := 0
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && rows[idx[end]].ROI == rows[idx[start]].ROI {
			end++
		}
		dense++
		// positions start+1 .. end share one ROI
		for k := start; k < end; k++ {
			var r float64
			switch method {
			case RankAverage:
				r = float64(start+1+end) / 2
			case RankMin:
				r = float64(start + 1)
			case RankMax:
				r = float64(end)
			case RankFirst:
				r = float64(k + 1)
			default:
				r = float64(dense)
			}
			rows[idx[k]].Rank = r
		}
		start = end
	}
}

// Top returns copies of the n rows with the largest ROI, highest first.
// Ties keep table order, so with RankDense a row never follows one with a
// larger Rank.
func Top(rows []types.AccountMetrics, n int) []types.AccountMetrics {
	if n <= 0 {
		return nil
	}
	idx := byROI(rows)
	if n < len(idx) {
		idx = idx[:n]
	}
	out := make([]types.AccountMetrics, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}
