package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	htmlPolicy    = bluemonday.UGCPolicy()
	commentPolicy = bluemonday.StrictPolicy()
)

func init() {
	htmlPolicy.AllowImages()
	htmlPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	htmlPolicy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown converts post markdown to sanitized HTML. On a parser
// error the raw source is sanitized and returned as-is.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return htmlPolicy.Sanitize(source)
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}

// SanitizeComment strips all markup from user comment content.
func SanitizeComment(content string) string {
	return commentPolicy.Sanitize(content)
}
