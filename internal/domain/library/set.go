package library

import "sort"

// Set is an unordered collection of artifact filenames. Identity is the
// filename string alone: a renamed file is indistinguishable from a deleted
// plus created pair, and a rewrite under an existing name is invisible.
type Set map[string]struct{}

// NewSet builds a set from the provided filenames.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}

	return s
}

// Add inserts a filename into the set.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Contains reports whether the filename is present.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of filenames in the set.
func (s Set) Len() int {
	return len(s)
}

// Diff returns the filenames present in after but absent from before.
// Diff(s, s) is empty for any set s.
func Diff(before, after Set) Set {
	fresh := make(Set)

	for name := range after {
		if _, ok := before[name]; !ok {
			fresh[name] = struct{}{}
		}
	}

	return fresh
}

// Sorted returns the display names of the set (extensions stripped), ordered
// by the version comparator with the raw filename as a tie-breaker. Repeated
// calls over an identical set produce an identical sequence.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a := ParseVersion(DisplayName(names[i]))
		b := ParseVersion(DisplayName(names[j]))

		if c := Compare(a, b); c != 0 {
			return c < 0
		}

		return names[i] < names[j]
	})

	display := make([]string, len(names))
	for i, name := range names {
		display[i] = DisplayName(name)
	}

	return display
}
