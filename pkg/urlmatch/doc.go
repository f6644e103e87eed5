// Package urlmatch implements the URL comparison rules used to decide
// whether a navigation link is "active" for the current location.
//
// Matching is ordinal and case-insensitive, never locale-sensitive. Two
// tolerances are built in:
//
//   - Trailing-slash equivalence: "https://site/path" matches a target of
//     "https://site/path/", so server-side default-document behavior does
//     not break active-link detection. The tolerance is one-directional.
//   - Segment-boundary prefix matching (MatchPrefix): "/abc" matches
//     "/abc/def" but never "/abcdef".
//
// The package also provides the href resolver that turns a raw (possibly
// relative) href attribute into the absolute URL the matcher compares.
package urlmatch
