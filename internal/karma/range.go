// Package karma implements the karma tier model: parsing range definitions
// from configuration, validating that they tile the number line without
// overlap, and resolving a karma value to its tier by binary search.
package karma

import (
	"math"
	"strconv"
	"strings"
	"time"

	kerrors "karmad/internal/errors"
)

// Required keys of every range section, including DEFAULT.
const (
	keyName        = "name"
	keyRangeMin    = "range_min"
	keyRangeMax    = "range_max"
	keyEnablePlus  = "enable_plus"
	keyEnableMinus = "enable_minus"
	keyPlusValue   = "plus_value"
	keyMinusValue  = "minus_value"
	keyDayMax      = "day_max"
	keyTimeout     = "timeout"
)

// requiredKeys lists every key a section must carry. Unknown keys are ignored.
var requiredKeys = []string{
	keyName, keyRangeMin, keyRangeMax,
	keyEnablePlus, keyEnableMinus,
	keyPlusValue, keyMinusValue,
	keyDayMax, keyTimeout,
}

// Range is one validated karma tier: a closed numeric interval plus the
// behavioral parameters that apply to users inside it. Bounds may be ±Inf.
// Values are immutable; consumers always receive copies.
type Range struct {
	Name string `json:"name"`

	Min float64 `json:"-"`
	Max float64 `json:"-"`

	EnablePlus  bool `json:"enablePlus"`
	EnableMinus bool `json:"enableMinus"`

	PlusValue  int `json:"plusValue"`
	MinusValue int `json:"minusValue"`

	DayMax  float64       `json:"-"`
	Timeout time.Duration `json:"-"`
}

// Contains reports whether a karma value falls inside the closed interval.
func (r Range) Contains(karma float64) bool {
	return karma >= r.Min && karma <= r.Max
}

// Section is a named key/value mapping extracted from a ranges file,
// decoupled from the on-disk format (INI or TOML).
type Section struct {
	Name string
	keys map[string]string
}

// NewSection creates an empty section with the given name.
func NewSection(name string) Section {
	return Section{Name: name, keys: make(map[string]string)}
}

// Set stores a key/value pair.
func (s Section) Set(key, value string) {
	s.keys[key] = value
}

// Get returns the value for key and whether it is present.
func (s Section) Get(key string) (string, bool) {
	v, ok := s.keys[key]
	return v, ok
}

// ParseSection parses and validates one range section.
// All nine required keys must be present; unknown keys are ignored.
func ParseSection(sec Section) (Range, error) {
	vals := make(map[string]string, len(requiredKeys))
	for _, key := range requiredKeys {
		v, ok := sec.Get(key)
		if !ok {
			return Range{}, kerrors.Newf(kerrors.MissingField,
				"value of %q not found for section %s", key, sec.Name).
				WithDetails(map[string]string{"section": sec.Name, "key": key})
		}
		vals[key] = strings.TrimSpace(v)
	}

	min, err := parseBound(vals[keyRangeMin])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidRange,
			"section %s: bad range_min %q", sec.Name, vals[keyRangeMin])
	}
	max, err := parseBound(vals[keyRangeMax])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidRange,
			"section %s: bad range_max %q", sec.Name, vals[keyRangeMax])
	}

	enablePlus, err := parseBool(vals[keyEnablePlus])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidBool,
			"section %s: bad enable_plus %q", sec.Name, vals[keyEnablePlus])
	}
	enableMinus, err := parseBool(vals[keyEnableMinus])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidBool,
			"section %s: bad enable_minus %q", sec.Name, vals[keyEnableMinus])
	}

	plusValue, err := strconv.Atoi(vals[keyPlusValue])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidValue,
			"section %s: bad plus_value %q", sec.Name, vals[keyPlusValue])
	}
	minusValue, err := strconv.Atoi(vals[keyMinusValue])
	if err != nil {
		return Range{}, kerrors.Newf(kerrors.InvalidValue,
			"section %s: bad minus_value %q", sec.Name, vals[keyMinusValue])
	}

	dayMax, err := parseBound(vals[keyDayMax])
	if err != nil || math.IsInf(dayMax, -1) || dayMax < 0 {
		return Range{}, kerrors.Newf(kerrors.InvalidRange,
			"section %s: day_max %q must be a non-negative integer or oo", sec.Name, vals[keyDayMax])
	}

	timeout, err := parseTimeout(vals[keyTimeout])
	if err != nil {
		return Range{}, err
	}

	if min > max {
		return Range{}, kerrors.Newf(kerrors.InvalidRange,
			"section %s: range_min %s > range_max %s", sec.Name,
			FormatBound(min), FormatBound(max)).
			WithDetails(map[string]string{"section": sec.Name})
	}

	return Range{
		Name:        vals[keyName],
		Min:         min,
		Max:         max,
		EnablePlus:  enablePlus,
		EnableMinus: enableMinus,
		PlusValue:   plusValue,
		MinusValue:  minusValue,
		DayMax:      dayMax,
		Timeout:     timeout,
	}, nil
}

// parseBound parses an integer literal or an infinity sentinel.
func parseBound(s string) (float64, error) {
	switch s {
	case "oo", "+oo":
		return math.Inf(1), nil
	case "-oo":
		return math.Inf(-1), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}

// FormatBound renders a bound the way the ranges file spells it:
// infinities as oo / -oo, finite bounds as integer literals.
func FormatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "oo"
	case math.IsInf(v, -1):
		return "-oo"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// parseTimeout parses a literal of the form <int><unit> where unit is one of
// s, m, h, d, w. The magnitude must be a non-negative integer.
func parseTimeout(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, kerrors.Newf(kerrors.InvalidTimeout, "bad timeout literal %q", s)
	}

	unit := s[len(s)-1]
	mag, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, kerrors.Newf(kerrors.InvalidTimeout, "bad timeout magnitude in %q", s)
	}
	if mag < 0 {
		return 0, kerrors.Newf(kerrors.InvalidTimeout, "timeout %q must not be negative", s)
	}

	switch unit {
	case 's':
		return time.Duration(mag) * time.Second, nil
	case 'm':
		return time.Duration(mag) * time.Minute, nil
	case 'h':
		return time.Duration(mag) * time.Hour, nil
	case 'd':
		return time.Duration(mag) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(mag) * 7 * 24 * time.Hour, nil
	default:
		return 0, kerrors.Newf(kerrors.InvalidTimeoutUnit, "invalid timeout unit %q in %q", string(unit), s)
	}
}

// FormatTimeout renders a duration back into the ranges-file literal form,
// using the largest unit that divides it exactly.
func FormatTimeout(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	week := 7 * 24 * time.Hour
	day := 24 * time.Hour
	switch {
	case d%week == 0:
		return strconv.FormatInt(int64(d/week), 10) + "w"
	case d%day == 0:
		return strconv.FormatInt(int64(d/day), 10) + "d"
	case d%time.Hour == 0:
		return strconv.FormatInt(int64(d/time.Hour), 10) + "h"
	case d%time.Minute == 0:
		return strconv.FormatInt(int64(d/time.Minute), 10) + "m"
	default:
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
}

// parseBool accepts the conventional truthy/falsy token set, case-insensitive.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}
