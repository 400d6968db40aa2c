// Package secrets detects credential-shaped tokens in free text and UAM
// documents. Matches are reported with a redacted preview; input is never modified.
package secrets

import (
	"fmt"
	"sort"

	"github.com/metalagman/uamc/internal/uam"
)

// Ellipsis separates the kept prefix from the kept suffix in previews.
const Ellipsis = "…"

const suffixLen = 4

// Match is one detected secret.
type Match struct {
	Pattern string `json:"pattern"`
	Preview string `json:"preview"`
	// Field locates the match in a document, e.g. "meta.title" or "blocks[2].content".
	Field string `json:"field,omitempty"`
	// BlockID is set when the match came from a block.
	BlockID string `json:"blockId,omitempty"`
	// Offset is the byte offset of the match within the scanned text.
	Offset int `json:"offset"`
}

// Result is the outcome of a scan.
type Result struct {
	HasSecrets bool    `json:"hasSecrets"`
	Matches    []Match `json:"matches"`
}

// Scanner runs a fixed pattern table. The zero value has no patterns; use New.
type Scanner struct {
	patterns []Pattern
}

// New returns a scanner over patterns, or over DefaultPatterns when none are given.
func New(patterns ...Pattern) *Scanner {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Scanner{patterns: patterns}
}

// Without returns a scanner that skips the named patterns.
func (s *Scanner) Without(names ...string) *Scanner {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	kept := make([]Pattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		if !skip[p.Name] {
			kept = append(kept, p)
		}
	}
	return &Scanner{patterns: kept}
}

// Patterns returns the scanner's pattern table.
func (s *Scanner) Patterns() []Pattern {
	return append([]Pattern(nil), s.patterns...)
}

// Scan finds secrets in text. Matches are ordered by offset; a span claimed by
// an earlier pattern is not reported again by a later one.
func (s *Scanner) Scan(text string) Result {
	matches := s.scan(text)
	return Result{HasSecrets: len(matches) > 0, Matches: matches}
}

// ScanDocument scans every free-text field an adapter can emit: meta.title,
// meta.description and the title, content and body of each block. Block
// matches are tagged with the block id.
func (s *Scanner) ScanDocument(doc uam.Document) Result {
	var all []Match
	add := func(field, blockID, text string) {
		for _, m := range s.scan(text) {
			m.Field = field
			m.BlockID = blockID
			all = append(all, m)
		}
	}
	add("meta.title", "", doc.Meta.Title)
	add("meta.description", "", doc.Meta.Description)
	for i, b := range doc.Blocks {
		add(fmt.Sprintf("blocks[%d].title", i), b.ID, b.Title)
		add(fmt.Sprintf("blocks[%d].content", i), b.ID, b.Content)
		add(fmt.Sprintf("blocks[%d].body", i), b.ID, b.Body)
	}
	if all == nil {
		all = []Match{}
	}
	return Result{HasSecrets: len(all) > 0, Matches: all}
}

type span struct{ start, end int }

func (s *Scanner) scan(text string) []Match {
	matches := []Match{}
	if text == "" {
		return matches
	}
	var claimed []span
	for _, p := range s.patterns {
		for _, loc := range p.Regexp.FindAllStringSubmatchIndex(text, -1) {
			sp := span{start: loc[0], end: loc[1]}
			if len(loc) >= 4 && loc[2] >= 0 {
				sp = span{start: loc[2], end: loc[3]}
			}
			if overlaps(claimed, sp) {
				continue
			}
			claimed = append(claimed, sp)
			matches = append(matches, Match{
				Pattern: p.Name,
				Preview: Redact(text[sp.start:sp.end], p.PrefixLen),
				Offset:  sp.start,
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Offset < matches[j].Offset })
	return matches
}

func overlaps(claimed []span, sp span) bool {
	for _, c := range claimed {
		if sp.start < c.end && c.start < sp.end {
			return true
		}
	}
	return false
}

// Redact keeps the first prefixLen characters of value, an ellipsis and the
// last four characters. Values too short to hide anything are fully masked.
func Redact(value string, prefixLen int) string {
	runes := []rune(value)
	if prefixLen < 0 {
		prefixLen = 0
	}
	if prefixLen+suffixLen >= len(runes) {
		return Ellipsis
	}
	return string(runes[:prefixLen]) + Ellipsis + string(runes[len(runes)-suffixLen:])
}

var defaultScanner = New()

// Scan runs the default pattern table over text.
func Scan(text string) Result {
	return defaultScanner.Scan(text)
}

// ScanDocument runs the default pattern table over doc.
func ScanDocument(doc uam.Document) Result {
	return defaultScanner.ScanDocument(doc)
}
