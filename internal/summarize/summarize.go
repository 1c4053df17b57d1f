// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize writes a short research-direction paragraph for a person
// from either their recent publications or their profile biography.
package summarize

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var (
	papersZhTmpl = template.Must(template.New("papers-zh").Parse(`基于以下论文标题和摘要（Paper Titles and Abstracts），总结教授 {{.Name}} 的研究方向。
请使用简体中文（Simplified Chinese），以第三人称撰写一段约 100-150 字的学术简介。
重点概括其核心研究领域和技术兴趣。保持专业学术风格，避免翻译腔，保留必要的英文专有名词。

Titles: {{.Titles}}
Abstracts: {{.Abstracts}}
`))

	papersEnTmpl = template.Must(template.New("papers-en").Parse(`Based on the following paper titles and abstracts, summarize the research direction of Professor {{.Name}}.
Please write a professional academic biography (about 100-150 words) in {{.Language}} in the third person.
Focus on summarizing their core research areas and technical interests. Maintain a professional academic tone.

Titles: {{.Titles}}
Abstracts: {{.Abstracts}}
`))

	bioZhTmpl = template.Must(template.New("bio-zh").Parse(`基于以下英文个人简介（Biography）文本，总结教授 {{.Name}} 的研究方向。
请使用简体中文（Simplified Chinese），以第三人称撰写一段约 100-150 字的学术简介。
去除客套话，专注于学术贡献和研究领域。保持专业学术风格，避免翻译腔，保留必要的英文专有名词。

Bio Text: {{.Bio}}
`))

	bioEnTmpl = template.Must(template.New("bio-en").Parse(`Based on the following biography text, summarize the research direction of Professor {{.Name}}.
Please write a professional academic biography (about 100-150 words) in {{.Language}} in the third person.
Remove polite filler words and focus on academic contributions and research areas. Maintain a professional academic tone.

Bio Text: {{.Bio}}
`))
)

// Summarizer produces research summaries with a language model.
type Summarizer struct {
	client   llm.Client
	tag      language.Tag
	langName string
	logger   *slog.Logger
}

// New returns a Summarizer writing in lang, a BCP-47 tag such as "zh" or
// "en". Chinese tags use the Chinese prompt; every other tag uses the English
// prompt and names the target language.
func New(client llm.Client, lang string, logger *slog.Logger) (*Summarizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if lang == "" {
		lang = "zh"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid summary language %q: %w", lang, err)
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		name = "English"
	}
	return &Summarizer{client: client, tag: tag, langName: name, logger: logger}, nil
}

// Language returns the configured language tag.
func (s *Summarizer) Language() language.Tag { return s.tag }

func (s *Summarizer) chinese() bool {
	base, _ := s.tag.Base()
	zh, _ := language.Chinese.Base()
	return base == zh
}

// FromPapers summarizes papers. It returns "" without calling the model when
// no paper has a title.
func (s *Summarizer) FromPapers(ctx context.Context, name string, papers []types.Paper) (string, error) {
	var titles, abstracts []string
	for _, p := range papers {
		if t := strings.TrimSpace(p.Title); t != "" {
			titles = append(titles, t)
		}
		if a := strings.TrimSpace(p.TLDR); a != "" {
			abstracts = append(abstracts, a)
		}
	}
	if len(titles) == 0 {
		return "", nil
	}

	tmpl := papersEnTmpl
	if s.chinese() {
		tmpl = papersZhTmpl
	}
	return s.complete(ctx, tmpl, map[string]any{
		"Name":      name,
		"Language":  s.langName,
		"Titles":    quoteList(titles),
		"Abstracts": quoteList(abstracts),
	})
}

// FromBio summarizes a biography. It returns "" without calling the model
// when bio is blank.
func (s *Summarizer) FromBio(ctx context.Context, name, bio string) (string, error) {
	if strings.TrimSpace(bio) == "" {
		return "", nil
	}

	tmpl := bioEnTmpl
	if s.chinese() {
		tmpl = bioZhTmpl
	}
	return s.complete(ctx, tmpl, map[string]any{
		"Name":     name,
		"Language": s.langName,
		"Bio":      bio,
	})
}

func (s *Summarizer) complete(ctx context.Context, tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering summary prompt: %w", err)
	}
	out, err := s.client.Complete(ctx, llm.Request{Prompt: buf.String()})
	if err != nil {
		s.logger.Warn("summary request failed", "name", data["Name"], "error", err)
		return "", fmt.Errorf("summary request: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
