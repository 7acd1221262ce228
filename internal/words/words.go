// Package words turns visible text into normalized word sets used for
// coverage comparison. Comparison is set-based on purpose: a word repeated
// ten times in a node counts once. This tolerates reflow and duplication
// but can over-credit a node that merely shares common vocabulary with the
// rest of the document; callers accept that trade-off.
package words

import (
    "strings"
    "unicode"

    "golang.org/x/text/cases"
)

// Set is a normalized word set. The zero value (nil) is an empty set that
// must not be added to; use NewSet or FromText to build one.
type Set map[string]struct{}

// NewSet returns an empty set sized for roughly n words.
func NewSet(n int) Set {
    if n < 0 {
        n = 0
    }
    return make(Set, n)
}

// Len reports the number of distinct words in the set.
func (s Set) Len() int { return len(s) }

// Contains reports whether the normalized form of w is in the set.
func (s Set) Contains(w string) bool {
    _, ok := s[cases.Fold().String(w)]
    return ok
}

// AddText splits text into words and adds each to the set.
func (s Set) AddText(text string) {
    for _, w := range Split(text) {
        s[w] = struct{}{}
    }
}

// AddAll adds every word of other into s.
func (s Set) AddAll(other Set) {
    for w := range other {
        s[w] = struct{}{}
    }
}

// FromText returns the word set of a text run.
func FromText(text string) Set {
    s := NewSet(0)
    s.AddText(text)
    return s
}

// Split breaks text into normalized word tokens. A word is a maximal run of
// Unicode letters or digits; whitespace and punctuation delimit. Tokens are
// case-folded so "Hello" and "hello" compare equal.
func Split(text string) []string {
    if strings.TrimSpace(text) == "" {
        return nil
    }
    fields := strings.FieldsFunc(text, func(r rune) bool {
        return !unicode.IsLetter(r) && !unicode.IsDigit(r)
    })
    folder := cases.Fold()
    out := make([]string, 0, len(fields))
    for _, f := range fields {
        out = append(out, folder.String(f))
    }
    return out
}

// Coverage returns |sub| / |full|. Callers guarantee sub ⊆ full, so no
// intersection is needed. An empty full set means there is nothing to
// preserve and coverage is trivially 1.0 for any sub.
func Coverage(sub, full Set) float64 {
    if len(full) == 0 {
        return 1.0
    }
    return float64(len(sub)) / float64(len(full))
}
