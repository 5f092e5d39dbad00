package tagclean

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"tagclean/internal/services"
	"tagclean/internal/tags"
)

// Rule names, in evaluation order.
const (
	RuleArtistSeparator = "artist-separator"
	RuleISRCFormat      = "isrc-format"
	RuleDeezerTrackID   = "deezer-track-id"
	RuleDeezerMissingID = "deezer-missing-id"
	RuleMissingSource   = "missing-source"
)

const (
	sourceDeezer = "DEEZER"

	// RemediationCommand is the external command that backfills Deezer
	// identifiers from the Deezer catalog.
	RemediationCommand = "spoty get --d me get --a [LOCAL_PATH] duplicates add-missing-tags"
)

// Rule is one anomaly check. Match and Fix must depend only on the mapping
// they receive. Fix is nil for informational rules.
type Rule struct {
	Name        string
	Description string
	Match       func(tags.Mapping) bool
	Describe    func(tags.Mapping) string
	Fix         func(tags.Mapping) tags.Mapping
	Prompt      func(count int) string
}

// Fixable reports whether confirming the rule changes any tags.
func (r Rule) Fixable() bool {
	return r.Fix != nil
}

// Rules returns the complete rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		artistSeparatorRule(),
		isrcFormatRule(),
		deezerTrackIDRule(),
		deezerMissingIDRule(),
		missingSourceRule(),
	}
}

// SelectRules returns Rules() minus the named ones, keeping evaluation order.
func SelectRules(disabled []string) ([]Rule, error) {
	all := Rules()
	skip := make(map[string]struct{}, len(disabled))
	for _, name := range disabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !knownRule(all, name) {
			return nil, services.Wrap(services.ErrConfiguration, "rules", "", fmt.Sprintf("unknown rule %q", name), nil)
		}
		skip[name] = struct{}{}
	}
	selected := make([]Rule, 0, len(all))
	for _, rule := range all {
		if _, ok := skip[rule.Name]; ok {
			continue
		}
		selected = append(selected, rule)
	}
	return selected, nil
}

func knownRule(rules []Rule, name string) bool {
	for _, rule := range rules {
		if rule.Name == name {
			return true
		}
	}
	return false
}

func artistSeparatorRule() Rule {
	return Rule{
		Name:        RuleArtistSeparator,
		Description: `ARTIST uses "," instead of ";" between artists`,
		Match: func(m tags.Mapping) bool {
			artist, ok := m.Get(tags.KeyArtist)
			return ok && strings.Contains(artist, ",")
		},
		Describe: func(m tags.Mapping) string {
			artist := m[tags.KeyArtist]
			return fmt.Sprintf("ARTIST: %q -> %q in %q", artist, ReplaceSeparators(artist), m.Path())
		},
		Fix: func(m tags.Mapping) tags.Mapping {
			return tags.Mapping{tags.KeyArtist: ReplaceSeparators(m[tags.KeyArtist])}
		},
		Prompt: func(count int) string {
			return fmt.Sprintf(`Replace "," with ";" in the ARTIST tag of these %d audio files?`, count)
		},
	}
}

func isrcFormatRule() Rule {
	return Rule{
		Name:        RuleISRCFormat,
		Description: "ISRC is lower-case or contains hyphens",
		Match: func(m tags.Mapping) bool {
			isrc, ok := m.Get(tags.KeyISRC)
			return ok && isrc != NormalizeISRC(isrc)
		},
		Describe: func(m tags.Mapping) string {
			isrc := m[tags.KeyISRC]
			return fmt.Sprintf("ISRC: %q -> %q in %q", isrc, NormalizeISRC(isrc), m.Path())
		},
		Fix: func(m tags.Mapping) tags.Mapping {
			return tags.Mapping{tags.KeyISRC: NormalizeISRC(m[tags.KeyISRC])}
		},
		Prompt: func(count int) string {
			return fmt.Sprintf("Normalize the ISRC tag of these %d audio files?", count)
		},
	}
}

func deezerTrackIDRule() Rule {
	return Rule{
		Name:        RuleDeezerTrackID,
		Description: "Deezer file has a non-empty SOURCEID but no DEEZER_TRACK_ID",
		Match: func(m tags.Mapping) bool {
			return m[tags.KeySourceID] != "" && !m.Has(tags.KeyDeezerTrackID) && sourceIs(m, sourceDeezer)
		},
		Describe: func(m tags.Mapping) string {
			return fmt.Sprintf("SOURCEID: %q in %q", m[tags.KeySourceID], m.Path())
		},
		Fix: func(m tags.Mapping) tags.Mapping {
			return tags.Mapping{tags.KeyDeezerTrackID: m[tags.KeySourceID]}
		},
		Prompt: func(count int) string {
			return fmt.Sprintf("Add the DEEZER_TRACK_ID tag to these %d audio files?", count)
		},
	}
}

func deezerMissingIDRule() Rule {
	return Rule{
		Name:        RuleDeezerMissingID,
		Description: "Deezer file has neither SOURCEID nor DEEZER_TRACK_ID",
		Match: func(m tags.Mapping) bool {
			// An empty SOURCEID carries no id to copy.
			return m[tags.KeySourceID] == "" && !m.Has(tags.KeyDeezerTrackID) && sourceIs(m, sourceDeezer)
		},
		Describe: describePath,
		Prompt: func(count int) string {
			return fmt.Sprintf(`These %d audio files have SOURCE=="DEEZER" but no SOURCEID or DEEZER_TRACK_ID. You can fix them with %q.`, count, RemediationCommand)
		},
	}
}

func missingSourceRule() Rule {
	return Rule{
		Name:        RuleMissingSource,
		Description: "SOURCE tag is missing or empty",
		Match: func(m tags.Mapping) bool {
			return m[tags.KeySource] == ""
		},
		Describe: describePath,
		Prompt: func(count int) string {
			return fmt.Sprintf("These %d audio files have no SOURCE tag. Fix them manually.", count)
		},
	}
}

func describePath(m tags.Mapping) string {
	return fmt.Sprintf("%q", m.Path())
}

// NormalizeISRC upper-cases value and strips every hyphen.
func NormalizeISRC(value string) string {
	return strings.ReplaceAll(strings.ToUpper(value), "-", "")
}

// ReplaceSeparators turns every comma into the ";" multi-value delimiter.
func ReplaceSeparators(value string) string {
	return strings.ReplaceAll(value, ",", ";")
}

// sourceIs compares the SOURCE tag to want using Unicode case folding.
func sourceIs(m tags.Mapping, want string) bool {
	source, ok := m.Get(tags.KeySource)
	if !ok {
		return false
	}
	fold := cases.Fold()
	return fold.String(source) == fold.String(want)
}
