// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"University of Texas, Austin", "university of texas austin"},
		{"MIT (CSAIL)", "mit csail"},
		{"École Polytechnique", "école polytechnique"},
		{"  Dept. of C.S.  ", "  dept of cs  "},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestAffiliationMatch(t *testing.T) {
	tests := []struct {
		name   string
		affs   []string
		target string
		want   bool
	}{
		{"punctuation and case insensitive", []string{"University of Texas, Austin"}, "university of texas austin", true},
		{"target inside longer affiliation", []string{"Dept. of CS, Stanford University, CA"}, "Stanford University", true},
		{"second affiliation matches", []string{"Google", "Stanford University"}, "stanford university", true},
		{"no match", []string{"MIT"}, "Stanford University", false},
		{"empty affiliations", nil, "Stanford University", false},
		{"empty target", []string{"Stanford University"}, "", false},
		{"punctuation-only target", []string{"Stanford University"}, "!!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AffiliationMatch(tt.affs, tt.target))
		})
	}
}

func TestAnchorMatch(t *testing.T) {
	tests := []struct {
		name    string
		titles  []string
		anchors []string
		want    bool
	}{
		{"trim and case", []string{"deep learning "}, []string{"Deep Learning"}, true},
		{"no partial match", []string{"Deep Learning Methods"}, []string{"Deep Learning"}, false},
		{"punctuation is significant", []string{"Deep-Learning"}, []string{"Deep Learning"}, false},
		{"second anchor", []string{"B"}, []string{"A", " b"}, true},
		{"no anchors", []string{"Deep Learning"}, nil, false},
		{"blank anchor ignored", []string{""}, []string{"  "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnchorMatch(tt.titles, tt.anchors))
		})
	}
}
