// Package normalize turns user-supplied and corpus reference strings into a
// canonical form so that encoding artifacts (thin spaces, NBSP, compatibility
// characters) do not break exact matching.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Form selects the Unicode normalization form.
type Form string

const (
	// FormNone skips Unicode normalization.
	FormNone Form = "none"
	// FormNFC applies canonical composition.
	FormNFC Form = "NFC"
	// FormNFKC applies compatibility composition (maps U+2009 and friends to U+0020).
	FormNFKC Form = "NFKC"
)

// ParseForm parses a form name (case-insensitive). Empty means NFKC.
func ParseForm(s string) (Form, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NFKC":
		return FormNFKC, nil
	case "NFC":
		return FormNFC, nil
	case "NONE":
		return FormNone, nil
	default:
		return "", fmt.Errorf("unknown unicode normalization form %q", s)
	}
}

// Config describes a normalization pipeline.
type Config struct {
	// Replacements are applied first, in the order given.
	Replacements []Replacement
	Form         Form
	Trim         bool
	// CollapseSpace folds every run of whitespace into a single ASCII space.
	CollapseSpace bool
}

// Replacement substitutes every occurrence of From with To.
type Replacement struct {
	From string
	To   string
}

// DefaultReplacements covers the space variants found in scraped corpora.
func DefaultReplacements() []Replacement {
	return []Replacement{
		{From: "\u2009", To: " "}, // thin space
		{From: "\u00a0", To: " "}, // no-break space
		{From: "\u202f", To: " "}, // narrow no-break space
	}
}

// DefaultConfig returns the pipeline used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Replacements:  DefaultReplacements(),
		Form:          FormNFKC,
		Trim:          true,
		CollapseSpace: true,
	}
}

// Normalizer applies a Config. The zero value returns input unchanged.
type Normalizer struct {
	replacer *strings.Replacer
	form     Form
	trim     bool
	collapse bool
}

// New builds a Normalizer from cfg.
func New(cfg Config) *Normalizer {
	n := &Normalizer{form: cfg.Form, trim: cfg.Trim, collapse: cfg.CollapseSpace}
	if len(cfg.Replacements) > 0 {
		pairs := make([]string, 0, len(cfg.Replacements)*2)
		for _, r := range cfg.Replacements {
			if r.From == "" {
				continue
			}
			pairs = append(pairs, r.From, r.To)
		}
		if len(pairs) > 0 {
			n.replacer = strings.NewReplacer(pairs...)
		}
	}
	return n
}

// Default returns a Normalizer with DefaultConfig.
func Default() *Normalizer { return New(DefaultConfig()) }

// Normalize returns the canonical form of s.
func (n *Normalizer) Normalize(s string) string {
	if n == nil {
		return s
	}
	if n.replacer != nil {
		s = n.replacer.Replace(s)
	}
	switch n.form {
	case FormNFKC:
		s = norm.NFKC.String(s)
	case FormNFC:
		s = norm.NFC.String(s)
	}
	if n.collapse {
		s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	} else if n.trim {
		s = strings.TrimSpace(s)
	}
	return s
}
