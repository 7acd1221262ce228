// Package selector implements the minimal text-preserving subtree search:
// among all nodes whose subtree still covers a target fraction of the
// document's visible words, pick the one whose serialized markup costs the
// fewest tokens.
//
// Coverage is monotonic non-decreasing from any node toward the root, so
// the qualifying region is upward-closed and never empty (the root always
// covers everything). Evaluating every element node rather than descending
// greedily also handles content split across disjoint sibling subtrees:
// when neither sibling alone reaches the threshold, their nearest common
// ancestor still does.
package selector

import (
    "fmt"

    "github.com/hyperifyio/fragmin/internal/dom"
    "github.com/hyperifyio/fragmin/internal/tokencount"
)

// Result describes the chosen node.
type Result struct {
    // Index is the node's position in the tree arena (document pre-order).
    Index int
    // Tag is the chosen element's name.
    Tag string
    // Markup is the chosen subtree serialized back to HTML.
    Markup string
    // Tokens is the markup's cost under the injected counter.
    Tokens int
    // OriginalTokens is the cost of the whole content root.
    OriginalTokens int
    // Coverage is the fraction of the document's words the subtree keeps.
    Coverage float64
    // Descendants counts element nodes below the chosen one.
    Descendants int
}

// ReductionPercent reports the relative token saving of the chosen subtree
// against the whole document.
func (r Result) ReductionPercent() float64 {
    if r.OriginalTokens <= 0 {
        return 0
    }
    return (1 - float64(r.Tokens)/float64(r.OriginalTokens)) * 100
}

// Select finds the minimum-cost node with coverage >= threshold. The
// threshold must be in [0,1]; counter supplies token costs and must be
// non-nil. Select itself never fails on a validly parsed tree, only
// rendering faults from the tree surface as errors.
//
// Tie-break, applied in order so repeated runs pick the same node: fewer
// descendants first, then the earlier node in document pre-order.
func Select(t *dom.Tree, threshold float64, counter tokencount.Counter) (Result, error) {
    if counter == nil {
        return Result{}, fmt.Errorf("selector: nil token counter")
    }
    if threshold < 0 || threshold > 1 {
        return Result{}, fmt.Errorf("selector: threshold %v outside [0,1]", threshold)
    }

    root := t.Root()
    original, err := t.Cost(root, counter.Count)
    if err != nil {
        return Result{}, err
    }

    // A document with no visible words has nothing to preserve. Every node
    // would trivially qualify, so an explicit branch pins the answer to the
    // root: zero reduction instead of an arbitrary empty element.
    if t.FullWords.Len() == 0 {
        return resultAt(t, root, original, counter)
    }

    best := -1
    bestTokens := 0
    for i := 0; i < t.Len(); i++ {
        if t.Coverage(i) < threshold {
            continue
        }
        tokens, err := t.Cost(i, counter.Count)
        if err != nil {
            return Result{}, err
        }
        switch {
        case best < 0:
        case tokens > bestTokens:
            continue
        case tokens == bestTokens && t.Descendants(i) >= t.Descendants(best):
            // Equal cost and no smaller extent: the earlier node wins.
            continue
        }
        best, bestTokens = i, tokens
    }
    if best < 0 {
        // Unreachable when the threshold is valid, since the root covers
        // 1.0. Kept as a safety net: fall back to the widest coverage.
        best = root
        for i := 1; i < t.Len(); i++ {
            if t.Coverage(i) > t.Coverage(best) {
                best = i
            }
        }
    }
    return resultAt(t, best, original, counter)
}

func resultAt(t *dom.Tree, i int, original int, counter tokencount.Counter) (Result, error) {
    markup, err := t.Render(i)
    if err != nil {
        return Result{}, err
    }
    tokens, err := t.Cost(i, counter.Count)
    if err != nil {
        return Result{}, err
    }
    return Result{
        Index:          i,
        Tag:            t.Nodes[i].Tag,
        Markup:         markup,
        Tokens:         tokens,
        OriginalTokens: original,
        Coverage:       t.Coverage(i),
        Descendants:    t.Descendants(i),
    }, nil
}
