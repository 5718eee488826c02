/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package binheader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrNaming is returned for an unknown naming convention.
	ErrNaming = errors.New("unknown naming convention")
	// ErrPrefix is returned for a prefix that is not a C identifier.
	ErrPrefix = errors.New("prefix is not a C identifier")
)

var cIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidatePrefix checks that prefix is empty or a valid C identifier.
func ValidatePrefix(prefix string) error {
	if prefix != "" && !cIdent.MatchString(prefix) {
		return fmt.Errorf("%w: %q", ErrPrefix, prefix)
	}
	return nil
}

// Naming is an identifier convention for the generated array name.
type Naming string

const (
	SnakeCase    Naming = "snake_case"
	CamelCase    Naming = "camelCase"
	PascalCase   Naming = "PascalCase"
	ConstantCase Naming = "CONSTANT_CASE"
)

// ParseNaming accepts the convention names as written in task files.
// An empty string selects SnakeCase.
func ParseNaming(s string) (Naming, error) {
	switch n := Naming(s); n {
	case "":
		return SnakeCase, nil
	case SnakeCase, CamelCase, PascalCase, ConstantCase:
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNaming, s)
}

// Words splits name at non alphanumeric characters, at lower to upper case
// transitions and in front of the last capital of an acronym, so
// "MaterialIcons-Regular" and "HTMLParser2" yield [Material Icons Regular]
// and [HTML Parser2]. Only ASCII letters and digits survive.
func Words(name string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(name)
	for i, r := range rs {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Apply formats name under n.
func (n Naming) Apply(name string) (string, error) {
	// casers keep state, one set per call
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)
	title := cases.Title(language.Und)
	words := Words(name)
	for i, w := range words {
		switch n {
		case SnakeCase:
			words[i] = lower.String(w)
		case ConstantCase:
			words[i] = upper.String(w)
		case PascalCase:
			words[i] = title.String(w)
		case CamelCase:
			if i == 0 {
				words[i] = lower.String(w)
			} else {
				words[i] = title.String(w)
			}
		default:
			return "", fmt.Errorf("%w: %q", ErrNaming, string(n))
		}
	}
	switch n {
	case SnakeCase, ConstantCase:
		return strings.Join(words, "_"), nil
	}
	return strings.Join(words, ""), nil
}

// Identifier builds the C identifier for a file stem, "<prefix>_<name>".
func Identifier(stem string, cfg Config) (string, error) {
	naming, err := ParseNaming(string(cfg.Naming))
	if err != nil {
		return "", err
	}
	name, err := naming.Apply(stem)
	if err != nil {
		return "", err
	}
	if err := ValidatePrefix(cfg.Prefix); err != nil {
		return "", err
	}
	ident := name
	switch {
	case cfg.Prefix != "" && name != "":
		ident = cfg.Prefix + "_" + name
	case cfg.Prefix != "":
		ident = cfg.Prefix
	}
	if ident == "" {
		return "", fmt.Errorf("no identifier characters in %q", stem)
	}
	if unicode.IsDigit(rune(ident[0])) {
		ident = "_" + ident
	}
	return ident, nil
}
