package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ratio is the edit-distance similarity of a and b on a 0-100 scale.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 100
	}
	longest := max(la, lb)
	return 100 * (1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest))
}

// partialRatio is the best ratio of the shorter string against every same-length window of the longer.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if r := ratio(short, string(rb[i:i+len(ra)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) []string {
	t := strings.Fields(s)
	sort.Strings(t)
	return t
}

func tokenSortRatio(a, b string) float64 {
	return ratio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

func tokenSetRatio(a, b string) float64 {
	setA, setB := make(map[string]bool), make(map[string]bool)
	for _, t := range strings.Fields(a) {
		setA[t] = true
	}
	for _, t := range strings.Fields(b) {
		setB[t] = true
	}
	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	if len(common) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	sect := strings.Join(common, " ")
	joinA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	joinB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))
	best := ratio(joinA, joinB)
	if sect != "" {
		best = max(best, ratio(sect, joinA), ratio(sect, joinB))
	}
	return best
}

// WeightedRatio blends whole, partial and token-based similarity the way general purpose fuzzy
// matchers do: partial matches count when lengths differ a lot, discounted by how much they differ.
// Both inputs are compared case-insensitively. Result is 0-100.
func WeightedRatio(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	base := ratio(a, b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	if lenRatio < 1.5 {
		return max(base, tokenSortRatio(a, b)*0.95, tokenSetRatio(a, b)*0.95)
	}
	scale := 0.9
	if lenRatio >= 8 {
		scale = 0.6
	}
	return max(base, partialRatio(a, b)*scale, tokenSetRatio(a, b)*0.95*scale)
}

type scored struct {
	index int
	score float64
}

// fuzzyTop scores query against every value and returns the best limit matches whose score is at
// least threshold, best first.
func fuzzyTop(query string, values []string, threshold float64, limit int) []scored {
	all := make([]scored, 0, len(values))
	for i, v := range values {
		all = append(all, scored{index: i, score: WeightedRatio(query, v)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > limit {
		all = all[:limit]
	}
	out := all[:0]
	for _, s := range all {
		if s.score >= threshold {
			out = append(out, s)
		}
	}
	return out
}
