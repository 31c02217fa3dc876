package feedview

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	bodyParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	bodyPolicy = bluemonday.UGCPolicy()
)

func init() {
	bodyPolicy.AllowImages()
	bodyPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	bodyPolicy.RequireNoReferrerOnLinks(true)
}

// RenderBody converts a post body to sanitized HTML for the detail view.
func RenderBody(source string) template.HTML {
	var buf bytes.Buffer
	if err := bodyParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(bodyPolicy.SanitizeBytes(buf.Bytes()))
}
