package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page is the data behind the HTML page
type Page struct {
	State
	Provider   string
	Backend    string
	Model      string
	Categories []string
}

// Render writes the full HTML page
func Render(w io.Writer, page Page) error {
	if err := pageTemplate.ExecuteTemplate(w, "index.html", page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
