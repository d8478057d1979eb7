package batch

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Score counts the positions where got holds the expected digit and returns
// the share of the thirteen positions that match. Undecoded positions never match.
func Score(got, want [13]int) (int, float64) {
	matches := 0
	for i := range got {
		if got[i] >= 0 && got[i] == want[i] {
			matches++
		}
	}
	return matches, float64(matches) / float64(len(got))
}

// GroupStats aggregates the items sharing a parent directory.
type GroupStats struct {
	Group       string  `json:"group"`
	Images      int     `json:"images"`
	Decoded     int     `json:"decoded"`
	Valid       int     `json:"valid"`
	Scored      int     `json:"scored"`
	MeanScore   float64 `json:"mean_score"`
	StdDevScore float64 `json:"stddev_score"`
}

// Summary aggregates the whole run.
type Summary struct {
	GroupStats
	Failed       int `json:"failed"`
	ExactMatches int `json:"exact_matches"`
}

func aggregate(group string, items []Item) GroupStats {
	gs := GroupStats{Group: group, Images: len(items)}
	var scores []float64
	for _, it := range items {
		if it.Result.Decoded() {
			gs.Decoded++
			if it.Result.Valid() {
				gs.Valid++
			}
		}
		if it.Scored {
			scores = append(scores, it.Score)
		}
	}
	gs.Scored = len(scores)
	gs.MeanScore, gs.StdDevScore = meanStdDev(scores)
	return gs
}

// meanStdDev returns the mean and sample standard deviation; a single sample
// has zero deviation and no samples yield zeros.
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std := stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// groupItems buckets items by Group and orders groups numerically when both
// names are integers (noise levels), lexically otherwise.
func groupItems(items []Item) []GroupStats {
	buckets := make(map[string][]Item)
	var names []string
	for _, it := range items {
		if _, ok := buckets[it.Group]; !ok {
			names = append(names, it.Group)
		}
		buckets[it.Group] = append(buckets[it.Group], it)
	}
	sort.Slice(names, func(i, j int) bool {
		a, errA := strconv.Atoi(names[i])
		b, errB := strconv.Atoi(names[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return names[i] < names[j]
	})

	out := make([]GroupStats, 0, len(names))
	for _, name := range names {
		out = append(out, aggregate(name, buckets[name]))
	}
	return out
}

func summarize(items []Item) Summary {
	s := Summary{GroupStats: aggregate("all", items)}
	for _, it := range items {
		if !it.Result.Decoded() {
			s.Failed++
		}
		if it.Scored && it.Matches == 13 {
			s.ExactMatches++
		}
	}
	return s
}
