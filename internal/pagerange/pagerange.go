// Package pagerange parses human-entered page selection expressions like
// "1-3,5" into concrete zero-based page indices.
package pagerange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yomitoru/yomitoru/internal/faults"
)

// Select parses expr into sorted, deduplicated zero-based page indices
// bounded by totalPages. An empty expression selects all pages. Page numbers
// in the expression are 1-based; values outside [1, totalPages] are dropped
// silently. Non-numeric tokens are user-input faults.
func Select(expr string, totalPages int) ([]int, error) {
	if totalPages < 0 {
		totalPages = 0
	}
	if strings.TrimSpace(expr) == "" {
		all := make([]int, totalPages)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			start, end, err := parseRangeToken(part)
			if err != nil {
				return nil, err
			}
			// Inclusive 1-based range clamped to the document. An inverted
			// range selects nothing.
			for p := start; p <= end; p++ {
				if p >= 1 && p <= totalPages {
					seen[p-1] = struct{}{}
				}
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, faults.Userf("pages", "invalid page number: %q", part)
		}
		if p >= 1 && p <= totalPages {
			seen[p-1] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

func parseRangeToken(part string) (int, int, error) {
	bounds := strings.SplitN(part, "-", 2)
	if len(bounds) != 2 {
		return 0, 0, faults.Userf("pages", "invalid range format: %q", part)
	}
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, faults.Userf("pages", "invalid range start: %q", bounds[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, faults.Userf("pages", "invalid range end: %q", bounds[1])
	}
	return start, end, nil
}

// Format renders indices back into a compact 1-based expression, mainly for
// logging.
func Format(indices []int) string {
	parts := make([]string, len(indices))
	for i, p := range indices {
		parts[i] = fmt.Sprintf("%d", p+1)
	}
	return strings.Join(parts, ",")
}
