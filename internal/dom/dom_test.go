package dom

import (
    "strings"
    "testing"
)

func TestParse_RootIsBody(t *testing.T) {
    tree, err := Parse([]byte(`<html><head><title>T</title></head><body><p>Hello world</p></body></html>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if got := tree.Nodes[tree.Root()].Tag; got != "body" {
        t.Fatalf("expected body root, got %q", got)
    }
    if tree.FullWords.Len() != 2 {
        t.Fatalf("expected FullWords {hello, world}, got %d words", tree.FullWords.Len())
    }
    if !tree.FullWords.Contains("hello") || !tree.FullWords.Contains("world") {
        t.Fatalf("expected hello and world in the full word set")
    }
}

func TestParse_FullWordSetEqualsRootWords(t *testing.T) {
    tree, err := Parse([]byte(`<body><div>alpha beta</div><p>gamma</p></body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    root := tree.Words(tree.Root())
    if root.Len() != tree.FullWords.Len() {
        t.Fatalf("expected FullWords == words(root): %d vs %d", tree.FullWords.Len(), root.Len())
    }
    if tree.Coverage(tree.Root()) != 1.0 {
        t.Fatalf("expected root coverage 1.0, got %v", tree.Coverage(tree.Root()))
    }
}

func TestParse_NonRenderingContentExcluded(t *testing.T) {
    tree, err := Parse([]byte(`<body>
      <script>var hidden = "secret";</script>
      <style>.secret { color: red }</style>
      <!-- commented secret -->
      <p>visible</p>
    </body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if tree.FullWords.Contains("secret") || tree.FullWords.Contains("hidden") {
        t.Fatalf("expected non-rendering payloads excluded from word set")
    }
    if !tree.FullWords.Contains("visible") {
        t.Fatalf("expected visible text in word set")
    }
    for i := 0; i < tree.Len(); i++ {
        if tree.Nodes[i].Tag == "script" || tree.Nodes[i].Tag == "style" {
            t.Fatalf("expected no arena node for %q", tree.Nodes[i].Tag)
        }
    }
}

func TestCoverage_MonotonicTowardRoot(t *testing.T) {
    tree, err := Parse([]byte(`<body>
      <nav>home about contact pricing blog careers</nav>
      <main><article><p>the actual content words</p></article></main>
    </body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    for i := 1; i < tree.Len(); i++ {
        parent := tree.Nodes[i].Parent
        if tree.Coverage(parent) < tree.Coverage(i) {
            t.Fatalf("coverage not monotonic: node %d (%s) %v > parent %d (%s) %v",
                i, tree.Nodes[i].Tag, tree.Coverage(i),
                parent, tree.Nodes[parent].Tag, tree.Coverage(parent))
        }
    }
}

func TestDescendants_SubtreeExtent(t *testing.T) {
    tree, err := Parse([]byte(`<body><div><p>one</p><p>two</p></div><span>three</span></body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    // Pre-order arena: body, div, p, p, span
    if tree.Len() != 5 {
        t.Fatalf("expected 5 element nodes, got %d", tree.Len())
    }
    if got := tree.Descendants(0); got != 4 {
        t.Fatalf("expected body to have 4 descendants, got %d", got)
    }
    if got := tree.Descendants(1); got != 2 {
        t.Fatalf("expected div to have 2 descendants, got %d", got)
    }
    if got := tree.Descendants(4); got != 0 {
        t.Fatalf("expected span to have 0 descendants, got %d", got)
    }
}

func TestRender_RoundTripsSubtree(t *testing.T) {
    tree, err := Parse([]byte(`<body><p class="x">Hello</p></body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    markup, err := tree.Render(tree.Root())
    if err != nil {
        t.Fatalf("render: %v", err)
    }
    if !strings.Contains(markup, `<p class="x">Hello</p>`) {
        t.Fatalf("expected rendered markup to preserve paragraph, got %q", markup)
    }
}

func TestCost_Memoized(t *testing.T) {
    tree, err := Parse([]byte(`<body><p>Hello world</p></body>`))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    calls := 0
    count := func(s string) int {
        calls++
        return len(s)
    }
    first, err := tree.Cost(0, count)
    if err != nil {
        t.Fatalf("cost: %v", err)
    }
    second, err := tree.Cost(0, count)
    if err != nil {
        t.Fatalf("cost: %v", err)
    }
    if first != second {
        t.Fatalf("memoized cost changed: %d vs %d", first, second)
    }
    if calls != 1 {
        t.Fatalf("expected a single counter invocation, got %d", calls)
    }
}

func TestParse_EmptyDocument(t *testing.T) {
    tree, err := Parse([]byte(``))
    if err != nil {
        t.Fatalf("parse: %v", err)
    }
    if tree.FullWords.Len() != 0 {
        t.Fatalf("expected empty word set, got %d words", tree.FullWords.Len())
    }
    if tree.Coverage(tree.Root()) != 1.0 {
        t.Fatalf("expected trivial coverage 1.0 for empty document, got %v", tree.Coverage(tree.Root()))
    }
}
