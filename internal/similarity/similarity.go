// Package similarity scores how close two strings are, for near-duplicate
// detection of generated content.
package similarity

import "strings"

// DuplicateThreshold is the score above which two strings are treated as
// near-duplicates. Tunable constant, not derived.
const DuplicateThreshold = 0.8

// editDistanceLimit is the length above which the edit-distance ratio is
// skipped in favor of the cheaper token-overlap ratio.
const editDistanceLimit = 200

// Score returns a similarity in [0,1]. It is symmetric and Score(x, x) == 1.
// Short strings are compared by edit-distance ratio over code points; long
// strings by token overlap. Substring containment short-circuits to 0.9.
func Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < editDistanceLimit && len(rb) < editDistanceLimit {
		longest := len(ra)
		if len(rb) > longest {
			longest = len(rb)
		}
		return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
	}

	return tokenOverlap(a, b)
}

// IsDuplicate reports whether two strings score above the duplicate threshold.
func IsDuplicate(a, b string) bool {
	return Score(a, b) > DuplicateThreshold
}

// tokenOverlap computes 2*|shared| / (|tokens(a)| + |tokens(b)|) over
// whitespace-split words.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta)+len(tb) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(ta))
	for _, w := range ta {
		counts[w]++
	}
	shared := 0
	for _, w := range tb {
		if counts[w] > 0 {
			counts[w]--
			shared++
		}
	}

	return 2.0 * float64(shared) / float64(len(ta)+len(tb))
}

// levenshtein computes the classic edit distance over code points using
// two rows instead of the full matrix.
func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	cols := len(s2) + 1
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
