package regexp

import "regexp"

// Match pairs a compiled expression with the value it stands for. Slices of
// Match are evaluated in declaration order, so the order is part of the
// contract of every table built from them.
type Match[V any] struct {
	Regexp *regexp.Regexp
	Value  V
}

func New[V any](expr string, v V) *Match[V] {
	return &Match[V]{
		Regexp: regexp.MustCompile(expr),
		Value:  v,
	}
}

func MatchesAnyRegexp[V any](r []*Match[V], s string) (*Match[V], bool) {
	for _, regex := range r {
		if regex.Regexp.MatchString(s) {
			return regex, true
		}
	}

	return nil, false
}

func StringMatchesAnyRegexp(r []*regexp.Regexp, s string) (*regexp.Regexp, bool) {
	for _, reg := range r {
		if reg.MatchString(s) {
			return reg, true
		}
	}

	return nil, false
}

// ExtractFieldsWithMatch returns the named groups of the first match of r in s.
// Groups that did not participate in the match are left out.
func ExtractFieldsWithMatch[V any](s string, r *Match[V]) map[string]string {
	result := make(map[string]string)

	idx := r.Regexp.FindStringSubmatchIndex(s)
	if idx == nil {
		return result
	}

	for i, name := range r.Regexp.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			continue
		}
		result[name] = s[start:end]
	}

	return result
}

func ExtractFields(s string, r *regexp.Regexp) map[string]string {
	rs := &Match[any]{
		Regexp: r,
	}

	return ExtractFieldsWithMatch(s, rs)
}
