package articles

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Extract pulls readable content out of raw HTML. Readability drives the
// main extraction; title resolution falls back to direct document queries
// when readability yields nothing usable.
func Extract(htmlContent string, pageURL *url.URL) (*Article, error) {
	parsed, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	text := normalize(parsed.TextContent)
	if text == "" {
		return nil, ErrEmptyContent
	}

	title := normalize(parsed.Title)
	if title == "" {
		title = fallbackTitle(htmlContent)
	}

	return &Article{
		Title: title,
		Text:  text,
		HTML:  parsed.Content,
	}, nil
}

func fallbackTitle(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	if title := normalize(doc.Find("title").First().Text()); title != "" {
		return title
	}

	if title := normalize(doc.Find("h1").First().Text()); title != "" {
		return title
	}

	if title, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title = normalize(title); title != "" {
			return title
		}
	}

	return ""
}
