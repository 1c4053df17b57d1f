// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector lists elements that never carry directory content.
const noiseSelector = "script, style, noscript, nav, footer, header, svg, button, input, form, iframe"

// Clean parses rawHTML, drops navigation and script noise, rewrites links as
// "text (href)" and returns the remaining text one fragment per line.
func Clean(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	target := doc.Find("body")
	if target.Length() == 0 {
		target = doc.Selection
	}
	target.Find(noiseSelector).Remove()

	target.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		if href == "" || text == "" {
			return
		}
		a.ReplaceWithHtml(html.EscapeString(text + " (" + href + ")"))
	})

	var lines []string
	collectText(target, &lines)
	return strings.Join(lines, "\n"), nil
}

func collectText(s *goquery.Selection, lines *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			if t := strings.Join(strings.Fields(c.Text()), " "); t != "" {
				*lines = append(*lines, t)
			}
			return
		}
		collectText(c, lines)
	})
}

// AbsolutizeLinks rewrites every a[href] in rawHTML against base so that the
// extractor sees full profile URLs.
func AbsolutizeLinks(rawHTML, base string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return rawHTML, fmt.Errorf("invalid base URL %q", base)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if abs, ok := resolve(baseURL, href); ok {
			a.SetAttr("href", abs)
		}
	})
	out, err := doc.Html()
	if err != nil {
		return rawHTML, fmt.Errorf("rendering HTML: %w", err)
	}
	return out, nil
}

// ResolveLink joins a possibly relative link to base. Links that cannot be
// parsed, and mailto/javascript links, are returned unchanged.
func ResolveLink(base, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return link
	}
	if abs, ok := resolve(baseURL, link); ok {
		return abs
	}
	return link
}

func resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}
