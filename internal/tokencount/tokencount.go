// Package tokencount provides the pluggable cost oracle mapping serialized
// markup to a token count. Implementations are deterministic for a fixed
// configuration, stateless after construction, and safe for concurrent
// callers, so one Counter is built per process and injected wherever costs
// are needed.
package tokencount

import (
    "fmt"
    "math"
    "strconv"
    "strings"
)

// Counter measures the token cost of a markup string for the downstream
// consumer model. Count never fails and never returns a negative value.
type Counter interface {
    Count(markup string) int
    Name() string
}

// New builds a Counter from a spec string:
//
//	"heuristic"  ~4 characters per token, ceiling (the default)
//	"words"      whitespace-delimited fields times 4/3, ceiling
//	"chars:N"    ceiling of len/N for a caller-chosen ratio N >= 1
//
// An unknown spec is a configuration error; callers treat it as fatal
// before any document is processed.
func New(spec string) (Counter, error) {
    s := strings.TrimSpace(strings.ToLower(spec))
    switch {
    case s == "" || s == "heuristic":
        return heuristicCounter{}, nil
    case s == "words":
        return wordCounter{}, nil
    case strings.HasPrefix(s, "chars:"):
        n, err := strconv.Atoi(strings.TrimPrefix(s, "chars:"))
        if err != nil || n < 1 {
            return nil, fmt.Errorf("token counter: invalid chars ratio in %q", spec)
        }
        return charRatioCounter{ratio: n}, nil
    default:
        return nil, fmt.Errorf("token counter: unknown spec %q (want heuristic, words, or chars:N)", spec)
    }
}

// heuristicCounter estimates ~4 characters per token, a conservative figure
// for English text and markup alike. The result is always at least 1 when
// the input is non-empty.
type heuristicCounter struct{}

func (heuristicCounter) Name() string { return "heuristic" }

func (heuristicCounter) Count(markup string) int {
    if len(markup) == 0 {
        return 0
    }
    return int(math.Ceil(float64(len(markup)) / 4.0))
}

// wordCounter scales whitespace-delimited fields by 4/3, approximating how
// subword tokenizers split ordinary prose.
type wordCounter struct{}

func (wordCounter) Name() string { return "words" }

func (wordCounter) Count(markup string) int {
    fields := len(strings.Fields(markup))
    if fields == 0 {
        return 0
    }
    return int(math.Ceil(float64(fields) * 4.0 / 3.0))
}

type charRatioCounter struct {
    ratio int
}

func (c charRatioCounter) Name() string { return fmt.Sprintf("chars:%d", c.ratio) }

func (c charRatioCounter) Count(markup string) int {
    if len(markup) == 0 {
        return 0
    }
    return int(math.Ceil(float64(len(markup)) / float64(c.ratio)))
}
