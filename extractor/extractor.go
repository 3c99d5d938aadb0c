// Package extractor pulls structural metadata out of source text using
// tree-sitter grammars: function, class, and import definitions plus raw
// identifier references.
package extractor

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/wardenhq/warden-core/internal/debug"
	"github.com/wardenhq/warden-core/types"
)

// snippetMaxRunes caps CodeSnippet length in code points; truncation
// appends an ellipsis and never splits a multi-byte rune.
const snippetMaxRunes = 200

// Extract parses content under the named language's grammar and runs the
// language's capability bundle over the tree. Unknown language tags and
// unparseable content produce all-empty metadata, never an error.
// Extract is safe for concurrent use; parsers are pooled per language.
func Extract(content, language string) types.AstMetadata {
	var meta types.AstMetadata

	bundle := getCapability(types.ParseLanguage(language))
	if bundle == nil {
		return meta
	}

	parser, ok := bundle.parsers.Get().(*tree_sitter.Parser)
	if !ok || parser == nil {
		return meta
	}
	defer bundle.parsers.Put(parser)

	src := []byte(content)
	tree := parseGuarded(parser, src)
	if tree == nil {
		return meta
	}
	defer tree.Close()

	root := tree.RootNode()
	meta.Functions = captureDefinitions(bundle.functions, root, src)
	meta.Classes = captureDefinitions(bundle.classes, root, src)
	meta.Imports = captureDefinitions(bundle.imports, root, src)
	meta.References = captureTexts(bundle.references, root, src)
	return meta
}

// parseGuarded isolates the CGO parser: a panic inside tree-sitter
// degrades to a nil tree instead of taking down the batch.
func parseGuarded(parser *tree_sitter.Parser, src []byte) (tree *tree_sitter.Tree) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogExtract("parser panic recovered: %v\n", r)
			tree = nil
		}
	}()
	return parser.Parse(src, nil)
}

// captureDefinitions collects one AstNodeInfo per captured name node.
// The snippet comes from the capture's parent, so an identifier capture
// yields the first line of its enclosing declaration.
func captureDefinitions(query *tree_sitter.Query, root *tree_sitter.Node, src []byte) []types.AstNodeInfo {
	if query == nil {
		return nil
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var out []types.AstNodeInfo
	matches := qc.Matches(query, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			out = append(out, types.AstNodeInfo{
				Name:        nodeText(&node, src),
				LineNumber:  int(node.StartPosition().Row) + 1,
				CodeSnippet: snippetFor(&node, src),
			})
		}
	}
	return out
}

// captureTexts collects raw capture strings in traversal order without
// deduplication.
func captureTexts(query *tree_sitter.Query, root *tree_sitter.Node, src []byte) []string {
	if query == nil {
		return nil
	}

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var out []string
	matches := qc.Matches(query, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			out = append(out, nodeText(&node, src))
		}
	}
	return out
}

// snippetFor renders the first line of the node's enclosing declaration.
func snippetFor(node *tree_sitter.Node, src []byte) string {
	enclosing := node.Parent()
	if enclosing == nil {
		enclosing = node
	}

	text := nodeText(enclosing, src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimRight(text, "\r")

	return truncateRunes(text, snippetMaxRunes)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func nodeText(node *tree_sitter.Node, src []byte) string {
	start := node.StartByte()
	end := node.EndByte()
	if end > uint(len(src)) {
		end = uint(len(src))
	}
	if start >= end {
		return ""
	}
	return string(src[start:end])
}
