// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"text/template"
)

// facultyListPromptTmpl asks for the people listed on a directory page.
var facultyListPromptTmpl = template.Must(template.New("faculty-list").Parse(`You are a data extraction agent.
Extract a list of faculty members from the text.

Strictly return a JSON LIST of objects. Do not include any markdown formatting.
Each object must have these keys:
- "name": Full name of the faculty member.
- "title": Job title (e.g., Professor, Assistant Professor).
- "profile_link": The URL to their profile page. If it is a relative path, keep it as is. If not found, use null.
- "email": Email address if available, else null.

Example Output:
[
  {"name": "John Doe", "title": "Professor", "profile_link": "/people/john-doe", "email": "john@example.com"},
  {"name": "Jane Smith", "title": "Assistant Professor", "profile_link": "https://example.com/jane", "email": null}
]

Page text:
{{.Text}}
`))

// profilePromptTmpl asks for the details on one person's profile page.
var profilePromptTmpl = template.Must(template.New("profile").Parse(`Extract a JSON object with keys:
- "name": inferred person name if present, else null
- "bio_text": main biography or profile description text (required; if no explicit bio section, return main content)
- "email": email address if found, else null
- "research_interests": list of specific research interests or keywords found, else empty list
- "recent_paper_titles": up to {{.MaxTitles}} publication titles if a Publications or Selected Works section exists, else empty list
Return only JSON.

Profile text:
{{.Text}}
`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
