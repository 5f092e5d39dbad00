package tagclean

import "tagclean/internal/tags"

// Candidate is a mapping flagged by a rule. Tags aliases the batch entry so
// applying Fix updates the batch in place.
type Candidate struct {
	Tags        tags.Mapping
	Description string
	Fix         tags.Mapping
}

// Plan returns the candidates of rule within batch, in batch order. It has no
// side effects.
func Plan(rule Rule, batch tags.Batch) []Candidate {
	var candidates []Candidate
	for _, mapping := range batch {
		if !rule.Match(mapping) {
			continue
		}
		candidate := Candidate{
			Tags:        mapping,
			Description: rule.Describe(mapping),
		}
		if rule.Fixable() {
			candidate.Fix = rule.Fix(mapping)
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
