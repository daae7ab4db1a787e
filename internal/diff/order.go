package diff

import "github.com/declmig/declmig/internal/schema"

// orderTables sorts the given table names so that every table appears
// after the tables it foreign-keys into. Dependencies outside the set
// (tables that already exist, or self references) count as satisfied.
// If the set contains a cycle the sorted-by-name input is returned
// unchanged and referential ordering becomes the operator's problem.
func orderTables(m schema.Model, names []string) []string {
	inSet := make(map[string]bool, len(names))
	for _, n := range names {
		inSet[n] = true
	}

	placed := make(map[string]bool, len(names))
	ordered := make([]string, 0, len(names))

	for range names {
		for _, n := range names {
			if placed[n] {
				continue
			}

			if depsSatisfied(m.Tables[n], inSet, placed) {
				placed[n] = true
				ordered = append(ordered, n)
			}
		}
	}

	if len(ordered) != len(names) {
		return names
	}

	return ordered
}

func depsSatisfied(t schema.Table, inSet, placed map[string]bool) bool {
	for _, dep := range t.Dependencies() {
		if inSet[dep] && !placed[dep] {
			return false
		}
	}

	return true
}
