// Package dom models one parsed HTML document as a flat, read-only arena of
// element nodes. Each node is owned by its parent, children are referenced
// by index, and the arena order is document pre-order, so a subtree is a
// contiguous index range. The tree is built once per document and never
// mutated afterwards. Word sets and token costs are memoized lazily without
// locking: a tree belongs to the single worker extracting its document and
// is never shared.
package dom

import (
    "bytes"
    "fmt"
    "strings"

    "golang.org/x/net/html"

    "github.com/hyperifyio/fragmin/internal/words"
)

// Node is one element of the parsed document. Text nodes are folded into
// their parent element's Text; comments and non-rendering subtrees are not
// represented at all.
type Node struct {
    // Tag is the lowercase element name, or "#document" for a synthetic
    // document root.
    Tag string
    // Attrs preserves the element's attributes in document order.
    Attrs []html.Attribute
    // Parent is the arena index of the owning element, -1 for the root.
    Parent int
    // Children holds arena indices of child elements, in document order.
    Children []int
    // Text is the element's direct text: text runs that belong to this
    // element and not to any child element.
    Text string
    // End is the exclusive arena index one past this node's subtree.
    End int

    ref   *html.Node
    words words.Set // memoized; nil until computed
    cost  int       // memoized serialized token count; -1 until computed
}

// Tree is a parsed document: the node arena plus the precomputed full word
// set of the document (equal to the root's word set by construction).
type Tree struct {
    Nodes     []Node
    FullWords words.Set
}

// nonRendering lists payloads that never contribute visible words. Their
// subtrees are excluded from the arena entirely so coverage stays monotonic;
// they still appear in serialized markup of their ancestors.
var nonRendering = map[string]struct{}{
    "script":   {},
    "style":    {},
    "noscript": {},
    "template": {},
}

// Parse builds a Tree from raw HTML. The content root is <body> when
// present, falling back to <html> and then to the document node, mirroring
// how the upstream pipeline picks its starting element. Parse fails only
// when the input cannot be tokenized into any tree at all.
func Parse(input []byte) (*Tree, error) {
    doc, err := html.Parse(bytes.NewReader(input))
    if err != nil {
        return nil, fmt.Errorf("parse html: %w", err)
    }
    root := findElement(doc, "body")
    if root == nil {
        root = findElement(doc, "html")
    }
    if root == nil {
        root = doc
    }

    t := &Tree{Nodes: make([]Node, 0, 64)}
    t.build(root, -1)
    t.FullWords = t.Words(0)
    return t, nil
}

// build appends the element subtree rooted at n in pre-order and returns
// the new node's arena index.
func (t *Tree) build(n *html.Node, parent int) int {
    idx := len(t.Nodes)
    tag := "#document"
    var attrs []html.Attribute
    if n.Type == html.ElementNode {
        tag = strings.ToLower(n.Data)
        attrs = n.Attr
    }
    t.Nodes = append(t.Nodes, Node{
        Tag:    tag,
        Attrs:  attrs,
        Parent: parent,
        ref:    n,
        cost:   -1,
    })

    var direct strings.Builder
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        switch c.Type {
        case html.TextNode:
            direct.WriteString(c.Data)
            direct.WriteByte(' ')
        case html.ElementNode:
            if _, skip := nonRendering[strings.ToLower(c.Data)]; skip {
                continue
            }
            child := t.build(c, idx)
            t.Nodes[idx].Children = append(t.Nodes[idx].Children, child)
        }
    }
    t.Nodes[idx].Text = direct.String()
    t.Nodes[idx].End = len(t.Nodes)
    return idx
}

// Root returns the arena index of the content root. It is always 0.
func (t *Tree) Root() int { return 0 }

// Len reports the number of element nodes in the arena.
func (t *Tree) Len() int { return len(t.Nodes) }

// Descendants reports how many element nodes live below node i.
func (t *Tree) Descendants(i int) int { return t.Nodes[i].End - i - 1 }

// Words returns node i's word set: the union of its direct text words and
// every child's word set. The result is memoized on the node and must be
// treated as read-only by callers.
func (t *Tree) Words(i int) words.Set {
    n := &t.Nodes[i]
    if n.words != nil {
        return n.words
    }
    set := words.FromText(n.Text)
    for _, c := range n.Children {
        set.AddAll(t.Words(c))
    }
    n.words = set
    return set
}

// Coverage reports the fraction of the document's full word set reachable
// from node i. It is 1.0 at the root for any document with visible text,
// and trivially 1.0 everywhere when the document has none.
func (t *Tree) Coverage(i int) float64 {
    return words.Coverage(t.Words(i), t.FullWords)
}

// Render serializes node i's subtree back to markup.
func (t *Tree) Render(i int) (string, error) {
    var buf bytes.Buffer
    if err := html.Render(&buf, t.Nodes[i].ref); err != nil {
        return "", fmt.Errorf("render node %d <%s>: %w", i, t.Nodes[i].Tag, err)
    }
    return buf.String(), nil
}

// Cost returns node i's serialized markup measured by count, memoizing the
// result. The first caller fixes the value; mixing counters on one tree is
// a caller bug.
func (t *Tree) Cost(i int, count func(string) int) (int, error) {
    n := &t.Nodes[i]
    if n.cost >= 0 {
        return n.cost, nil
    }
    markup, err := t.Render(i)
    if err != nil {
        return 0, err
    }
    n.cost = count(markup)
    return n.cost, nil
}

func findElement(n *html.Node, tag string) *html.Node {
    if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
        return n
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if found := findElement(c, tag); found != nil {
            return found
        }
    }
    return nil
}
