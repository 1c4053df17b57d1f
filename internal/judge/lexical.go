// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Overlap thresholds for LexicalJudge.
const (
	highOverlap   = 0.5
	mediumOverlap = 0.2
	minHighShared = 2
)

// LexicalJudge compares vocabulary between a person's title, bio and research
// interests and the candidate's paper titles and TLDRs. It is deterministic
// and needs no network access.
type LexicalJudge struct{}

// JudgeContent scores the overlap of content terms. The score is the number of
// shared terms divided by the size of the smaller term set.
func (LexicalJudge) JudgeContent(_ context.Context, person types.ScrapedPerson, author *types.DetailedAuthor, _ string) (types.ConfidenceResult, error) {
	profile := terms(person.Title, person.BioText, strings.Join(person.ResearchInterests, " "))
	var texts []string
	for _, p := range author.Papers {
		texts = append(texts, p.Title, p.TLDR)
	}
	record := terms(texts...)

	if len(profile) == 0 || len(record) == 0 {
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "Insufficient text to compare"}, nil
	}

	var shared []string
	for t := range profile {
		if record[t] {
			shared = append(shared, t)
		}
	}
	sort.Strings(shared)

	smaller := len(profile)
	if len(record) < smaller {
		smaller = len(record)
	}
	score := float64(len(shared)) / float64(smaller)

	switch {
	case score >= highOverlap && len(shared) >= minHighShared:
		return types.ConfidenceResult{Confidence: types.ConfidenceHigh, Reason: fmt.Sprintf("Strong topical overlap: %s", strings.Join(shared, ", "))}, nil
	case score >= mediumOverlap:
		return types.ConfidenceResult{Confidence: types.ConfidenceMedium, Reason: fmt.Sprintf("Partial topical overlap: %s", strings.Join(shared, ", "))}, nil
	default:
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "Profile and publication topics do not align"}, nil
	}
}

// terms returns the set of content words in texts.
func terms(texts ...string) map[string]bool {
	set := make(map[string]bool)
	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if stopwords[w] {
				continue
			}
			w = stem(w)
			if len(w) < 2 || stopwords[w] {
				continue
			}
			set[w] = true
		}
	}
	return set
}

// stem drops a plural "s" so "networks" and "network" compare equal.
func stem(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is") {
		return w[:len(w)-1]
	}
	return w
}

var stopwords = func() map[string]bool {
	words := strings.Fields(`
		a an and are as at be by for from has have in into is it its of on or
		that the their this to was were with within we our via using use based
		toward towards new study studies analysis approach approaches method
		professor assistant associate emeritus adjunct lecturer chair director
		department dept school college university institute faculty research
		researcher interest interests work works expert specializing specialize
		focus focuses area areas field fields center centre lab laboratory
		phd dr prof member senior junior visiting
	`)
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}()
