package karma

import (
	"sort"

	"karmad/internal/errorlog"
	kerrors "karmad/internal/errors"
)

// Registry owns the full, sorted collection of karma ranges plus one default
// range used by callers that explicitly opt into fallback behavior.
//
// A Registry is built once and never mutated; lookups are pure and safe for
// unsynchronized concurrent readers. Reconfiguration means building a new
// Registry and swapping it in atomically (see internal/reload).
type Registry struct {
	ranges []Range // sorted ascending by Min
	def    Range
}

// Build parses every tier section, sorts by lower bound, verifies the tiling
// invariants, and parses the default section. Construction is all-or-nothing:
// the first failure aborts and no partial registry is observable.
//
// The reporter receives a diagnostic for each failure; pass nil to discard.
func Build(sections []Section, defaultSection Section, rep errorlog.Reporter) (*Registry, error) {
	if rep == nil {
		rep = errorlog.Discard
	}

	ranges := make([]Range, 0, len(sections))
	for _, sec := range sections {
		r, err := ParseSection(sec)
		if err != nil {
			rep.Report("range parse failure", err.Error())
			return nil, err
		}
		ranges = append(ranges, r)
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Min < ranges[j].Min
	})

	// After sorting by lower bound any overlap must surface between
	// index-adjacent elements, so one O(n) walk is sufficient.
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Min <= ranges[i-1].Max {
			err := kerrors.Newf(kerrors.OverlappingRanges,
				"ranges %q and %q overlap", ranges[i].Name, ranges[i-1].Name).
				WithDetails(map[string]string{
					"range": ranges[i].Name,
					"other": ranges[i-1].Name,
				})
			rep.Report("overlapping ranges", err.Error())
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(ranges))
	for _, r := range ranges {
		if _, dup := seen[r.Name]; dup {
			err := kerrors.Newf(kerrors.DuplicateRange,
				"range name %q used by more than one section", r.Name)
			rep.Report("duplicate range name", err.Error())
			return nil, err
		}
		seen[r.Name] = struct{}{}
	}

	// The default range is parsed like any tier but is exempt from the
	// overlap check: it is an out-of-band answer for uncovered values,
	// not a tile.
	def, err := ParseSection(defaultSection)
	if err != nil {
		rep.Report("default range parse failure", err.Error())
		return nil, err
	}

	return &Registry{ranges: ranges, def: def}, nil
}

// Lookup resolves a karma value to its tier in O(log n) comparisons.
//
// A value in a gap between tiers yields a RANGE_NOT_FOUND error. That is an
// ordinary, recoverable result: the registry never substitutes the default
// range on its own. Callers that want fallback use LookupOrDefault.
func (g *Registry) Lookup(karma float64) (Range, error) {
	lo, hi := 0, len(g.ranges)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch Compare(karma, g.ranges[mid]) {
		case 0:
			return g.ranges[mid], nil
		case -1:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return Range{}, kerrors.Newf(kerrors.RangeNotFound,
		"no range contains karma %s", FormatBound(karma))
}

// LookupOrDefault resolves a karma value, substituting the default range
// when no tier covers it. This is the explicit caller opt-in; Lookup never
// falls back silently.
func (g *Registry) LookupOrDefault(karma float64) Range {
	r, err := g.Lookup(karma)
	if err != nil {
		return g.def
	}
	return r
}

// Default returns the default range.
func (g *Registry) Default() Range {
	return g.def
}

// Ranges returns a copy of the sorted tier list.
func (g *Registry) Ranges() []Range {
	out := make([]Range, len(g.ranges))
	copy(out, g.ranges)
	return out
}

// Len returns the number of tiers (excluding the default range).
func (g *Registry) Len() int {
	return len(g.ranges)
}
