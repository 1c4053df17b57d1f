// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the faculty-scout pipeline:
// scraped directory records, bibliographic candidates, match verdicts,
// confidence judgments, and report rows.
package types

// ScrapedPerson is one faculty member as produced by the structured extractor
// from a directory page and, when available, the person's own profile page.
// It is treated as immutable once the orchestrator receives it.
type ScrapedPerson struct {
	Name              string   `json:"name" yaml:"name" validate:"required"`
	Title             string   `json:"title" yaml:"title"`
	ProfileLink       string   `json:"profile_link" yaml:"profile_link" validate:"omitempty,url"`
	Email             string   `json:"email" yaml:"email" validate:"omitempty,email"`
	BioText           string   `json:"bio_text" yaml:"bio_text"`
	ResearchInterests []string `json:"research_interests" yaml:"research_interests"`

	// RecentPaperTitles holds at most two titles taken from the profile's
	// publications section. They serve as anchor publications.
	RecentPaperTitles []string `json:"recent_paper_titles" yaml:"recent_paper_titles" validate:"max=2"`
}

// MaxAnchorTitles caps RecentPaperTitles.
const MaxAnchorTitles = 2

// Paper is one publication in an author's record.
type Paper struct {
	Title         string `json:"title" yaml:"title"`
	Year          int    `json:"year,omitempty" yaml:"year,omitempty"`
	CitationCount *int   `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
	TLDR          string `json:"tldr,omitempty" yaml:"tldr,omitempty"`
}

// CandidateAuthor is a summary author record returned by a bibliographic
// author search. It carries no publications.
type CandidateAuthor struct {
	AuthorID      string   `json:"author_id" yaml:"author_id"`
	Name          string   `json:"name" yaml:"name"`
	Affiliations  []string `json:"affiliations" yaml:"affiliations"`
	PaperCount    int      `json:"paper_count" yaml:"paper_count"`
	CitationCount int      `json:"citation_count" yaml:"citation_count"`
}

// DetailedAuthor is a CandidateAuthor with its publication list attached.
type DetailedAuthor struct {
	CandidateAuthor `yaml:",inline"`

	Papers []Paper `json:"papers" yaml:"papers"`
}

// VerificationStatus records how a locked author identity was confirmed.
type VerificationStatus string

const (
	VerifiedByAnchorPaper          VerificationStatus = "verified_by_anchor_paper"
	VerifiedByQueryUni             VerificationStatus = "verified_by_query_uni"
	VerifiedByQueryKeywordUniMatch VerificationStatus = "verified_by_query_keyword_uni_match"
	VerifiedByQueryKeyword         VerificationStatus = "verified_by_query_keyword"
	VerifiedByRerankUni            VerificationStatus = "verified_by_rerank_uni"
	VerifiedByRerankKeyword        VerificationStatus = "verified_by_rerank_keyword"
	NeedsManualCheck               VerificationStatus = "needs_manual_check"
)

// Structural reports whether the status was reached through affiliation or
// anchor-title evidence rather than best-effort acceptance.
func (s VerificationStatus) Structural() bool {
	switch s {
	case VerifiedByAnchorPaper, VerifiedByQueryUni, VerifiedByQueryKeywordUniMatch,
		VerifiedByQueryKeyword, VerifiedByRerankUni, VerifiedByRerankKeyword:
		return true
	default:
		return false
	}
}

// MatchVerdict is the outcome of matching one person against the candidates
// of a bibliographic search. LockedAuthor is nil when no identity was locked.
type MatchVerdict struct {
	LockedAuthor       *DetailedAuthor    `json:"locked_author,omitempty" yaml:"locked_author,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status" yaml:"verification_status"`
	IsConfidentMatch   bool               `json:"is_confident_match" yaml:"is_confident_match"`

	// TrustedByQuery marks a lock taken on search rank alone (permissive
	// keyword stage) rather than on rule evidence.
	TrustedByQuery bool `json:"trusted_by_query,omitempty" yaml:"trusted_by_query,omitempty"`
}

// Structural reports whether the lock rests on anchor or affiliation
// evidence. A rank-trusted lock never does, whatever its status.
func (v MatchVerdict) Structural() bool {
	return !v.TrustedByQuery && v.VerificationStatus.Structural()
}

// Confidence is the tri-level verdict of the confidence judge.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ParseConfidence maps a case-insensitive label to a Confidence.
func ParseConfidence(s string) (Confidence, bool) {
	switch s {
	case "High", "high", "HIGH":
		return ConfidenceHigh, true
	case "Medium", "medium", "MEDIUM":
		return ConfidenceMedium, true
	case "Low", "low", "LOW":
		return ConfidenceLow, true
	}
	return "", false
}

// ConfidenceResult is a confidence level with a human-readable reason.
type ConfidenceResult struct {
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Reason     string     `json:"reason" yaml:"reason"`
}

// Accepts reports whether the result is strong enough to use the candidate's
// publications as summarization evidence.
func (c ConfidenceResult) Accepts() bool {
	return c.Confidence == ConfidenceHigh || c.Confidence == ConfidenceMedium
}

// DataSource identifies where a row's research summary came from.
type DataSource string

const (
	SourceS2Verified DataSource = "S2_Verified"
	SourceWebBio     DataSource = "Web_Bio"
	SourceEmpty      DataSource = "Empty"
	SourceError      DataSource = "Error"
)

// NoDataSummary is the summary text written for rows without a usable source.
const NoDataSummary = "No data available."

// OutputRow is one line of the final report.
type OutputRow struct {
	Name             string     `json:"Name" yaml:"name"`
	Title            string     `json:"Title" yaml:"title"`
	Email            string     `json:"Email" yaml:"email"`
	ResearchKeywords string     `json:"Research_Keywords" yaml:"research_keywords"`
	ProfileLink      string     `json:"Profile_Link" yaml:"profile_link"`
	ResearchSummary  string     `json:"Research_Summary" yaml:"research_summary"`
	DataSource       DataSource `json:"Data_Source" yaml:"data_source"`
}

// ReportColumns is the fixed column order of the report.
var ReportColumns = []string{
	"Name", "Title", "Email", "Research_Keywords", "Profile_Link", "Research_Summary", "Data_Source",
}

// Values returns the row's cells in ReportColumns order.
func (r OutputRow) Values() []string {
	return []string{
		r.Name, r.Title, r.Email, r.ResearchKeywords, r.ProfileLink, r.ResearchSummary, string(r.DataSource),
	}
}
