package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"notes-cli/internal/model"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in note content is never passed through (no html.WithUnsafe).
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

var notePage = template.Must(template.New("note").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article aria-labelledby="note-title">
<h1 id="note-title">{{.Title}}</h1>
<p><span class="tag">{{.Tag}}</span>{{if not .CreatedAt.IsZero}} <time datetime="{{.CreatedAt.UTC.Format "2006-01-02T15:04:05Z07:00"}}">{{.CreatedAt.UTC.Format "2006-01-02 15:04"}}</time>{{end}}</p>
<div class="content">{{.Body}}</div>
</article>
</body>
</html>
`))

// handleNotePage renders one note as a standalone HTML page, content as markdown.
func (s *Server) handleNotePage(w http.ResponseWriter, r *http.Request) {
	n, err := s.cfg.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	var b bytes.Buffer
	if err := notePage.Execute(&b, struct {
		model.Note
		Body template.HTML
	}{Note: n, Body: renderMarkdownHTML(n.Content)}); err != nil {
		s.log.Error("render note page", "id", n.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}
