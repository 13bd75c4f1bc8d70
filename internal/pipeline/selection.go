package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EffectiveSelection resolves the zero-based pages a run processes. An
// empty selection means every page. Otherwise the indices are returned
// ascending with duplicates removed.
func EffectiveSelection(pageCount int, selected []int) ([]int, error) {
	if len(selected) == 0 {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool, len(selected))
	out := make([]int, 0, len(selected))
	for _, i := range selected {
		if i < 0 || i >= pageCount {
			return nil, fmt.Errorf("%w: %d (document has %d pages)", ErrPageOutOfRange, i+1, pageCount)
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

// PageNumbers converts zero-based indices to 1-based page numbers.
func PageNumbers(indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = idx + 1
	}
	return out
}

// ParsePageNumbers converts 1-based page numbers to zero-based indices.
func ParsePageNumbers(numbers []int) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = n - 1
	}
	return out
}

// ParsePageSpec parses 1-based page numbers and ranges such as
// "1,3,5-7" into zero-based indices. An empty spec selects nothing,
// which a run treats as every page.
func ParsePageSpec(spec string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || first < 1 {
			return nil, fmt.Errorf("%w: invalid page %q", ErrPageOutOfRange, part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || last < first {
				return nil, fmt.Errorf("%w: invalid range %q", ErrPageOutOfRange, part)
			}
		}
		for n := first; n <= last; n++ {
			out = append(out, n-1)
		}
	}
	return out, nil
}
