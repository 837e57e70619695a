package articles_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ledgercast/ledgercast/internal/articles"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Markets Rally on Rate Cut Hopes</title>
	<meta property="og:title" content="Markets Rally on Rate Cut Hopes" />
</head>
<body>
	<article>
		<h1>Markets Rally on Rate Cut Hopes</h1>
		<p>Equity markets climbed sharply on Thursday as traders priced in an
		earlier-than-expected rate cut. The S&amp;P 500 closed up 1.8 percent,
		led by rate-sensitive sectors.</p>
		<p>Bond yields fell across the curve, with the two-year note dropping
		twelve basis points. Analysts cautioned that the move may reverse if
		inflation data surprises to the upside next week.</p>
		<p>Futures markets now imply three cuts before year end, a sharp shift
		from the single cut priced a month ago.</p>
	</article>
</body>
</html>`

func TestExtract(t *testing.T) {
	article, err := articles.Extract(samplePage, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if article.Title != "Markets Rally on Rate Cut Hopes" {
		t.Errorf("title = %q", article.Title)
	}
	if !strings.Contains(article.Text, "Equity markets climbed sharply") {
		t.Errorf("text missing article body: %q", article.Text)
	}
	if !strings.Contains(article.Text, "three cuts before year end") {
		t.Errorf("text missing later paragraphs: %q", article.Text)
	}
	if article.HTML == "" {
		t.Error("extracted html is empty")
	}
}

func TestExtractEmptyContent(t *testing.T) {
	_, err := articles.Extract("<html><head></head><body></body></html>", nil)
	if !errors.Is(err, articles.ErrEmptyContent) {
		t.Errorf("extract error = %v, want ErrEmptyContent", err)
	}
}
