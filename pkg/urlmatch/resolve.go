package urlmatch

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNilBase is returned when no application base URL is configured.
var ErrNilBase = errors.New("urlmatch: nil base URL")

// ResolveHref resolves a raw href attribute against the application base
// URL and returns the absolute URL string the matcher compares against.
//
// An empty href is a real target: it resolves to the base URL itself.
// An href the URL parser rejects is a configuration error and is returned
// to the caller; it is not recoverable here.
func ResolveHref(base *url.URL, href string) (string, error) {
	if base == nil {
		return "", ErrNilBase
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("urlmatch: resolve href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
