package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/ledgercast/ledgercast/internal/articles"
)

// ScrapeNode returns a state node that fetches the source article and
// stores the extracted content in the workflow state bag.
func ScrapeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sourceURL, err := extractString(s, KeySourceURL, ErrScrapeFailed)
		if err != nil {
			return s, fmt.Errorf("scrape: %w", err)
		}

		article, err := rt.Scraper.Fetch(ctx, sourceURL)
		if err != nil {
			return s, fmt.Errorf("scrape: %w: %w", ErrScrapeFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "scrape node complete",
			"url", article.URL,
			"title", article.Title,
			"chars", len(article.Text),
		)

		return s.Set(KeyArticle, article), nil
	})
}

func extractArticle(s state.State) (*articles.Article, error) {
	val, ok := s.Get(KeyArticle)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyArticle)
	}

	article, ok := val.(*articles.Article)
	if !ok {
		return nil, fmt.Errorf("%s is not *articles.Article", KeyArticle)
	}

	return article, nil
}

func extractString(s state.State, key string, wrap error) (string, error) {
	val, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: missing %s in state", wrap, key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not string", wrap, key)
	}

	return str, nil
}
