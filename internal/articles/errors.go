package articles

import "errors"

// Article scraping errors.
var (
	ErrInvalidURL    = errors.New("article url must be http or https")
	ErrFetchFailed   = errors.New("article fetch failed")
	ErrExtractFailed = errors.New("article extraction failed")
	ErrEmptyContent  = errors.New("article has no readable content")
)
