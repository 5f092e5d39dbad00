package tagclean

import (
	"errors"
	"strings"
	"testing"

	"tagclean/internal/services"
	"tagclean/internal/tags"
)

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, rule := range Rules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("rule %q not found", name)
	return Rule{}
}

func TestRulesOrder(t *testing.T) {
	want := []string{RuleArtistSeparator, RuleISRCFormat, RuleDeezerTrackID, RuleDeezerMissingID, RuleMissingSource}
	rules := Rules()
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, rule := range rules {
		if rule.Name != want[i] {
			t.Fatalf("rule %d: expected %s, got %s", i, want[i], rule.Name)
		}
	}
	for _, name := range []string{RuleDeezerMissingID, RuleMissingSource} {
		if ruleByName(t, name).Fixable() {
			t.Fatalf("expected %s to be informational", name)
		}
	}
}

func TestNormalizeISRCIdempotent(t *testing.T) {
	values := []string{"", "us-s1-00-00001", "USS1000001", "gb--abc-12", "-", "ab-ÿ-é", "Üs-1"}
	for _, v := range values {
		once := NormalizeISRC(v)
		if twice := NormalizeISRC(once); twice != once {
			t.Fatalf("NormalizeISRC not idempotent for %q: %q vs %q", v, once, twice)
		}
		if strings.Contains(once, "-") {
			t.Fatalf("NormalizeISRC(%q) kept a hyphen: %q", v, once)
		}
	}
	if got := NormalizeISRC("us-s1-00-00001"); got != "USS1000001" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestReplaceSeparatorsCounts(t *testing.T) {
	values := []string{"Drake, Future", "A,B,C", ",", "A; B, C", "x,,y"}
	for _, v := range values {
		got := ReplaceSeparators(v)
		if strings.Contains(got, ",") {
			t.Fatalf("ReplaceSeparators(%q) kept a comma: %q", v, got)
		}
		before := strings.Count(v, ";")
		if after := strings.Count(got, ";"); after-before != strings.Count(v, ",") {
			t.Fatalf("ReplaceSeparators(%q): semicolons %d -> %d, commas %d", v, before, after, strings.Count(v, ","))
		}
	}
}

func TestArtistSeparatorMatch(t *testing.T) {
	rule := ruleByName(t, RuleArtistSeparator)
	cases := []struct {
		name    string
		mapping tags.Mapping
		want    bool
	}{
		{"comma", tags.Mapping{tags.KeyArtist: "Drake, Future"}, true},
		{"semicolon", tags.Mapping{tags.KeyArtist: "Drake; Future"}, false},
		{"absent", tags.Mapping{"ALBUMARTIST": "Drake, Future"}, false},
		{"lowercase key", tags.Mapping{"artist": "Drake, Future"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rule.Match(tc.mapping); got != tc.want {
				t.Fatalf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFixesAreIdempotent(t *testing.T) {
	for _, rule := range Rules() {
		if !rule.Fixable() {
			continue
		}
		m := tags.Mapping{
			tags.KeyArtist:   "A, B",
			tags.KeyISRC:     "us-s1-00-00001",
			tags.KeySource:   "deezer",
			tags.KeySourceID: "123",
			tags.KeyFileName: "/m/a.flac",
		}
		if !rule.Match(m) {
			t.Fatalf("%s: expected match on fixture", rule.Name)
		}
		m.Merge(rule.Fix(m))
		if rule.Match(m) {
			t.Fatalf("%s: still matches after fix: %#v", rule.Name, m)
		}
		again := rule.Fix(m)
		for key, value := range again {
			if m[key] != value {
				t.Fatalf("%s: second fix changes %s from %q to %q", rule.Name, key, m[key], value)
			}
		}
	}
}

func TestISRCAlreadyNormalizedIsNotCandidate(t *testing.T) {
	rule := ruleByName(t, RuleISRCFormat)
	if rule.Match(tags.Mapping{tags.KeyISRC: "USS1000001"}) {
		t.Fatal("normalized ISRC must not match")
	}
	if rule.Match(tags.Mapping{}) {
		t.Fatal("missing ISRC must not match")
	}
	if !rule.Match(tags.Mapping{tags.KeyISRC: "USS1-000001"}) {
		t.Fatal("hyphenated ISRC must match")
	}
}

func TestDeezerRules(t *testing.T) {
	backfill := ruleByName(t, RuleDeezerTrackID)
	missing := ruleByName(t, RuleDeezerMissingID)

	cases := []struct {
		name         string
		mapping      tags.Mapping
		wantBackfill bool
		wantMissing  bool
	}{
		{"backfill mixed case", tags.Mapping{tags.KeySource: "Deezer", tags.KeySourceID: "123"}, true, false},
		{"already has id", tags.Mapping{tags.KeySource: "DEEZER", tags.KeySourceID: "123", tags.KeyDeezerTrackID: "123"}, false, false},
		{"no ids", tags.Mapping{tags.KeySource: "deezer"}, false, true},
		{"empty source id", tags.Mapping{tags.KeySource: "DEEZER", tags.KeySourceID: ""}, false, true},
		{"only track id", tags.Mapping{tags.KeySource: "deezer", tags.KeyDeezerTrackID: "9"}, false, false},
		{"spotify", tags.Mapping{tags.KeySource: "SPOTIFY", tags.KeySourceID: "abc"}, false, false},
		{"no source", tags.Mapping{tags.KeySourceID: "abc"}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := backfill.Match(tc.mapping); got != tc.wantBackfill {
				t.Fatalf("backfill Match = %v, want %v", got, tc.wantBackfill)
			}
			if got := missing.Match(tc.mapping); got != tc.wantMissing {
				t.Fatalf("missing Match = %v, want %v", got, tc.wantMissing)
			}
		})
	}
}

func TestMissingSourceMatch(t *testing.T) {
	rule := ruleByName(t, RuleMissingSource)
	if !rule.Match(tags.Mapping{}) {
		t.Fatal("absent SOURCE must match")
	}
	if !rule.Match(tags.Mapping{tags.KeySource: ""}) {
		t.Fatal("empty SOURCE must match")
	}
	if rule.Match(tags.Mapping{tags.KeySource: "SPOTIFY"}) {
		t.Fatal("present SOURCE must not match")
	}
}

func TestSelectRules(t *testing.T) {
	rules, err := SelectRules([]string{" ISRC-Format ", RuleMissingSource})
	if err != nil {
		t.Fatalf("SelectRules: %v", err)
	}
	want := []string{RuleArtistSeparator, RuleDeezerTrackID, RuleDeezerMissingID}
	if len(rules) != len(want) {
		t.Fatalf("expected %v, got %d rules", want, len(rules))
	}
	for i, rule := range rules {
		if rule.Name != want[i] {
			t.Fatalf("expected %v order, got %s at %d", want, rule.Name, i)
		}
	}

	if _, err := SelectRules([]string{"no-such-rule"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPlanKeepsBatchOrderAndAliases(t *testing.T) {
	batch := tags.Batch{
		{tags.KeyArtist: "A, B", tags.KeyFileName: "/m/1.flac"},
		{tags.KeyArtist: "C", tags.KeyFileName: "/m/2.flac"},
		{tags.KeyArtist: "D, E", tags.KeyFileName: "/m/3.flac"},
	}
	candidates := Plan(ruleByName(t, RuleArtistSeparator), batch)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Tags.Path() != "/m/1.flac" || candidates[1].Tags.Path() != "/m/3.flac" {
		t.Fatalf("unexpected candidate order")
	}
	if candidates[0].Fix[tags.KeyArtist] != "A; B" {
		t.Fatalf("unexpected planned fix %#v", candidates[0].Fix)
	}
	if batch[0][tags.KeyArtist] != "A, B" {
		t.Fatal("Plan must not mutate the batch")
	}
	candidates[0].Tags["MARK"] = "x"
	if batch[0]["MARK"] != "x" {
		t.Fatal("candidate tags must alias the batch entry")
	}
}
