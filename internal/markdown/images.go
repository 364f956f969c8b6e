package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// imagePattern matches ![alt](url) and ![alt](<url> "title").
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\((\s*<?([^)\s>]+)>?)(?:\s+"[^"]*")?\)`)

// Image is a reference found in a markdown body.
type Image struct {
	Alt string
	URL string
}

type span struct{ start, stop int }

// FindImages returns image references in document order. References inside
// fenced or indented code blocks and inline code are ignored.
func FindImages(body string) []Image {
	protected := codeSpans([]byte(body))
	var out []Image
	for _, m := range imagePattern.FindAllStringSubmatchIndex(body, -1) {
		if inside(protected, m[0]) {
			continue
		}
		out = append(out, Image{Alt: body[m[2]:m[3]], URL: body[m[6]:m[7]]})
	}
	return out
}

// ReplaceURLs substitutes every literal occurrence of each key with its value,
// leaving code blocks and inline code untouched.
func ReplaceURLs(body string, repl map[string]string) string {
	if len(repl) == 0 {
		return body
	}
	olds := make([]string, 0, len(repl))
	for k := range repl {
		olds = append(olds, k)
	}
	// longer URLs first so a prefix never shadows a longer match
	sort.Slice(olds, func(i, j int) bool {
		if len(olds[i]) != len(olds[j]) {
			return len(olds[i]) > len(olds[j])
		}
		return olds[i] < olds[j]
	})
	pairs := make([]string, 0, len(olds)*2)
	for _, k := range olds {
		pairs = append(pairs, k, repl[k])
	}
	r := strings.NewReplacer(pairs...)

	var b strings.Builder
	last := 0
	for _, s := range codeSpans([]byte(body)) {
		b.WriteString(r.Replace(body[last:s.start]))
		b.WriteString(body[s.start:s.stop])
		last = s.stop
	}
	b.WriteString(r.Replace(body[last:]))
	return b.String()
}

// codeSpans returns sorted, non-overlapping byte ranges of code content.
func codeSpans(src []byte) []span {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				spans = append(spans, span{seg.Start, seg.Stop})
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					spans = append(spans, span{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[:0]
	for _, s := range spans {
		if n := len(merged); n > 0 && s.start <= merged[n-1].stop {
			if s.stop > merged[n-1].stop {
				merged[n-1].stop = s.stop
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func inside(spans []span, pos int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].stop > pos })
	return i < len(spans) && spans[i].start <= pos
}
