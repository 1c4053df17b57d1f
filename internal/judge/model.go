// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var judgePromptTmpl = template.Must(template.New("judge").Parse(`Decide whether a scraped faculty profile and a bibliographic author record describe the same person.

Target affiliation: {{.Affiliation}}

Scraped profile:
- Name: {{.Person.Name}}
- Title: {{.Person.Title}}
- Research interests: {{.Interests}}
- Bio: {{.Bio}}

Candidate author:
- Name: {{.Author.Name}}
- Affiliations: {{.Affiliations}}
- Paper count: {{.Author.PaperCount}}, citation count: {{.Author.CitationCount}}
- Publications:
{{range .Author.Papers}}  - {{.Title}}{{if .Year}} ({{.Year}}){{end}}
{{else}}  (none)
{{end}}
Rate the match:
- "High" when the research topics clearly align.
- "Medium" when they plausibly align.
- "Low" when they conflict or there is not enough evidence.

Respond with a JSON object only: {"confidence": "High|Medium|Low", "reason": "one short sentence"}
`))

const judgeBioChars = 3000

// ModelJudge asks a language model to compare profile and record.
type ModelJudge struct {
	Client llm.Client
}

type modelVerdict struct {
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// JudgeContent renders the judge prompt and parses the model's JSON answer.
func (m *ModelJudge) JudgeContent(ctx context.Context, person types.ScrapedPerson, author *types.DetailedAuthor, affiliation string) (types.ConfidenceResult, error) {
	bio := person.BioText
	if r := []rune(bio); len(r) > judgeBioChars {
		bio = string(r[:judgeBioChars])
	}

	var buf bytes.Buffer
	err := judgePromptTmpl.Execute(&buf, map[string]any{
		"Affiliation":  affiliation,
		"Person":       person,
		"Interests":    strings.Join(person.ResearchInterests, ", "),
		"Bio":          bio,
		"Author":       author,
		"Affiliations": strings.Join(author.Affiliations, "; "),
	})
	if err != nil {
		return types.ConfidenceResult{}, fmt.Errorf("rendering judge prompt: %w", err)
	}

	out, err := m.Client.Complete(ctx, llm.Request{Prompt: buf.String(), JSON: true})
	if err != nil {
		return types.ConfidenceResult{}, fmt.Errorf("judge request: %w", err)
	}

	var v modelVerdict
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(out)), &v); err != nil {
		return types.ConfidenceResult{}, fmt.Errorf("parsing judge response: %w", err)
	}
	conf, ok := types.ParseConfidence(strings.TrimSpace(v.Confidence))
	if !ok {
		return types.ConfidenceResult{}, fmt.Errorf("unknown confidence %q", v.Confidence)
	}
	return types.ConfidenceResult{Confidence: conf, Reason: strings.TrimSpace(v.Reason)}, nil
}
