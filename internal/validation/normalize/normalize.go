// Package normalize canonicalizes raw extracted field values into comparable
// forms. Pure functions only: a blank or unparseable value normalizes to
// absent, never to a guess.
package normalize

import (
	"sort"
	"strings"
	"time"

	"dossier/internal/validation/models"
)

// DateLayout is the single accepted date format (day-first). Ambiguous or
// locale-dependent inputs are treated as absent.
const DateLayout = "02/01/2006"

// accentFold maps the accented runes seen in extracted French-language
// documents onto their base letters for comparison.
var accentFold = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a",
	"ù", "u", "û", "u", "ü", "u",
	"ô", "o", "ö", "o",
	"î", "i", "ï", "i",
	"ç", "c",
)

// Name canonicalizes a person or place name. The display form keeps the
// original casing with whitespace collapsed; the compare form is lowercased,
// accent-folded, and dash-split for order-insensitive matching.
func Name(raw string) models.FieldValue {
	display := collapseWhitespace(raw)
	if display == "" {
		return models.FieldValue{}
	}

	compare := strings.ToLower(display)
	compare = accentFold.Replace(compare)
	compare = strings.ReplaceAll(compare, "-", " ")
	compare = stripPunctuation(compare)
	compare = collapseWhitespace(compare)
	if compare == "" {
		return models.FieldValue{}
	}

	return models.FieldValue{Display: display, Compare: compare}
}

// Date parses a DD/MM/YYYY value. Anything else is absent.
func Date(raw string) models.FieldValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.FieldValue{}
	}
	// Extracted dates sometimes trail a time component; only the date part
	// is meaningful here.
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return models.FieldValue{}
	}
	return models.FieldValue{Display: s, Compare: s, Date: &t}
}

// Field normalizes one raw field according to its name: date-typed fields
// parse as dates, everything else as names/free text.
func Field(name, raw string) models.FieldValue {
	if models.IsDateField(name) {
		return Date(raw)
	}
	return Name(raw)
}

// Fields normalizes a raw field bag into comparable values. Keys absent from
// the input stay absent in the output map (zero FieldValue).
func Fields(raw map[string]string) map[string]models.FieldValue {
	out := make(map[string]models.FieldValue, len(raw))
	for name, value := range raw {
		out[name] = Field(name, value)
	}
	return out
}

// Matcher decides whether two normalized name values refer to the same
// identity. Implementations must be deterministic; swapping in a fuzzier
// comparator never changes deduction amounts, only which relations match.
type Matcher interface {
	Matches(a, b models.FieldValue) bool
}

// TokenSetMatcher compares names as unordered token sets, so
// "Jean Dupont" matches "Dupont Jean".
type TokenSetMatcher struct{}

// Matches reports token-set equality of the compare forms. Absent values
// never match; absence is a missing-field concern, not a mismatch.
func (TokenSetMatcher) Matches(a, b models.FieldValue) bool {
	if a.Compare == "" || b.Compare == "" {
		return false
	}
	return tokenKey(a.Compare) == tokenKey(b.Compare)
}

func tokenKey(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// SplitNames breaks a multi-name field (contract beneficiaries) into
// individual normalized names. Separators are ";" and ",".
func SplitNames(v models.FieldValue) []models.FieldValue {
	if v.Display == "" {
		return nil
	}
	parts := strings.FieldsFunc(v.Display, func(r rune) bool {
		return r == ';' || r == ','
	})
	out := make([]models.FieldValue, 0, len(parts))
	for _, p := range parts {
		if n := Name(p); n.Present() {
			out = append(out, n)
		}
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
