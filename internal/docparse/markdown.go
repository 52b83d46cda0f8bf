package docparse

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// extractMarkdownText flattens a markdown document to plain text. Headings,
// paragraphs and list items become their own lines; table rows are joined
// with pipe separators so tabular facts stay on one line for retrieval.
func extractMarkdownText(content []byte) string {
	reader := text.NewReader(content)
	doc := markdown.Parser().Parse(reader)

	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			ensureBlankLine(&b)
			b.WriteString(extractTextFromNode(node, content))
			b.WriteString("\n")
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			b.Write(node.Segment.Value(content))
			return ast.WalkContinue, nil

		case *ast.String:
			b.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			ensureNewline(&b)
			writeCodeLines(&b, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			ensureNewline(&b)
			writeCodeLines(&b, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			ensureNewline(&b)
			return ast.WalkContinue, nil

		case *ast.List, *ast.ListItem:
			ensureNewline(&b)
			return ast.WalkContinue, nil

		default:
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				ensureNewline(&b)
				b.WriteString(extractTableRowText(n, content))
				b.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return strings.TrimSpace(b.String())
}

// extractTextFromNode collects the text of a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// extractTableRowText joins a row's cells with pipe separators.
func extractTableRowText(row ast.Node, content []byte) string {
	var b strings.Builder
	cellCount := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if strings.Contains(node.Kind().String(), "TableCell") {
			if cellCount > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(extractTextFromNode(node, content))
			cellCount++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

func writeCodeLines(b *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

func ensureNewline(b *strings.Builder) {
	if s := b.String(); len(s) > 0 && !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
}

func ensureBlankLine(b *strings.Builder) {
	s := b.String()
	if len(s) == 0 {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
	if !strings.HasSuffix(b.String(), "\n\n") {
		b.WriteString("\n")
	}
}
