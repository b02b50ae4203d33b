// Package runlist parses run number lists such as "48028,48030-48035"
package runlist

import (
	"strconv"
	"strings"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// MaxRuns bounds the expansion of a single list
const MaxRuns = 100000

// Parse expands a comma separated list of runs and inclusive ranges.
// Order is kept and duplicates are dropped
func Parse(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, perr.InvalidArgf("empty run list")
	}

	seen := map[int]struct{}{}
	var out []int
	add := func(r int) error {
		if _, ok := seen[r]; ok {
			return nil
		}
		if len(out) >= MaxRuns {
			return perr.InvalidArgf("run list expands past %d runs", MaxRuns)
		}
		seen[r] = struct{}{}
		out = append(out, r)
		return nil
	}

	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(tok, "-")
		first, err := run(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = run(hi); err != nil {
				return nil, err
			}
			if last < first {
				return nil, perr.InvalidArgf("run range %q is descending", tok)
			}
		}
		for r := first; r <= last; r++ {
			if err := add(r); err != nil {
				return nil, err
			}
		}
	}
	if len(out) == 0 {
		return nil, perr.InvalidArgf("empty run list")
	}
	return out, nil
}

func run(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, perr.InvalidArgf("bad run number %q", s)
	}
	return n, nil
}
