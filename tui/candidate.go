package tui

import (
	"sort"
	"strings"
)

// CandidateInfo breaks a candidate into its variant chain and utility.
type CandidateInfo struct {
	Variants  []string
	Utility   string
	Arbitrary bool
	Important bool
	Negative  bool
}

// Classify splits name on the colons that are not inside brackets or
// parentheses. Everything before the last one is a variant.
func Classify(name string) CandidateInfo {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, name[start:i])
				start = i + 1
			}
		}
	}
	utility := name[start:]

	info := CandidateInfo{
		Variants:  parts,
		Arbitrary: strings.ContainsRune(name, '['),
	}
	if strings.HasPrefix(utility, "!") || strings.HasSuffix(utility, "!") {
		info.Important = true
		utility = strings.TrimSuffix(strings.TrimPrefix(utility, "!"), "!")
	}
	if strings.HasPrefix(utility, "-") {
		info.Negative = true
	}
	info.Utility = utility
	return info
}

// Kind is a short label for the table.
func (i CandidateInfo) Kind() string {
	switch {
	case i.Arbitrary:
		return "arbitrary"
	case i.Negative:
		return "negative"
	case i.Important:
		return "important"
	case len(i.Variants) > 0:
		return "variant"
	default:
		return "utility"
	}
}

type VariantCount struct {
	Name  string
	Count int
}

// topVariants counts how many candidates use each variant and returns the
// n most common, ties broken by name.
func topVariants(candidates []Candidate, n int) []VariantCount {
	counts := make(map[string]int)
	for _, c := range candidates {
		for _, v := range c.Info.Variants {
			counts[v]++
		}
	}

	out := make([]VariantCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, VariantCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
