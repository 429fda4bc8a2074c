package library

import (
	"regexp"
	"strconv"
	"strings"
)

// Qualifier is the parsed third dot-separated segment of an artifact
// filename, e.g. "5f1" -> (5, "f", 1).
type Qualifier struct {
	// Num is the leading numeric part of the qualifier.
	Num int
	// Letter is the optional single letter between the numeric parts.
	Letter string
	// Suffix is the optional trailing numeric part.
	Suffix int
}

// Version is the comparable key derived from an artifact filename such as
// "2021.3.5f1". It is never persisted; callers derive it freshly from the
// filename whenever an ordering is needed.
type Version struct {
	// Major is the leading version segment.
	Major int
	// Minor is the second version segment.
	Minor int
	// Qualifier is the parsed third segment.
	Qualifier Qualifier
}

// qualifierPattern matches a numeric prefix, an optional letter and an
// optional numeric suffix, anchored at the start of the qualifier.
var qualifierPattern = regexp.MustCompile(`^(\d+)([A-Za-z])?(\d*)`)

// ParseQualifier parses a qualifier segment into its (number, letter, suffix)
// parts. Qualifiers that do not start with a digit produce the degenerate key
// (0, original, 0), which keeps the ordering total: malformed qualifiers sort
// before all well-formed ones and fall back to lexicographic comparison on
// the letter field.
func ParseQualifier(s string) Qualifier {
	groups := qualifierPattern.FindStringSubmatch(s)
	if groups == nil {
		return Qualifier{Num: 0, Letter: s, Suffix: 0}
	}

	// The pattern guarantees the first group is numeric.
	num, _ := strconv.Atoi(groups[1])

	var suffix int
	if groups[3] != "" {
		suffix, _ = strconv.Atoi(groups[3])
	}

	return Qualifier{
		Num:    num,
		Letter: groups[2],
		Suffix: suffix,
	}
}

// ParseVersion parses a display name of the form "<major>.<minor>.<qualifier>"
// into a Version. Segments that are missing or non-numeric degrade to zero so
// that every input still has a defined place in the total order.
func ParseVersion(name string) Version {
	parts := strings.SplitN(name, ".", 3)

	var v Version

	v.Major = parseIntOrZero(parts[0])

	if len(parts) > 1 {
		v.Minor = parseIntOrZero(parts[1])
	}

	if len(parts) > 2 {
		v.Qualifier = ParseQualifier(parts[2])
	}

	return v
}

// Compare orders two versions by (major, minor, qualifier number, qualifier
// letter, qualifier suffix), all ascending. It reports -1, 0 or 1 in the
// usual comparator convention.
func Compare(a, b Version) int {
	if c := compareInts(a.Major, b.Major); c != 0 {
		return c
	}

	if c := compareInts(a.Minor, b.Minor); c != 0 {
		return c
	}

	if c := compareInts(a.Qualifier.Num, b.Qualifier.Num); c != 0 {
		return c
	}

	if c := strings.Compare(a.Qualifier.Letter, b.Qualifier.Letter); c != 0 {
		return c
	}

	return compareInts(a.Qualifier.Suffix, b.Qualifier.Suffix)
}

// DisplayName strips the extension (the text after the final dot) from an
// artifact filename: "2021.3.5f1.zip" -> "2021.3.5f1". Names without a dot
// are returned unchanged.
func DisplayName(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return filename
	}

	return filename[:i]
}

// parseIntOrZero converts s to an int, treating anything non-numeric as 0.
func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}

// compareInts is a three-way comparison of two ints.
func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
