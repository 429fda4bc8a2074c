package indexer

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/oshokin/miner-runner/internal/domain/library"
	"github.com/oshokin/miner-runner/internal/logger"
)

// IndexFilename is the fixed name of the rendered page inside the artifact
// directory.
const IndexFilename = "index.html"

// indexPermissions allows the page to be served by a plain file server.
const indexPermissions = 0o644

// timestampLayout renders the human-readable UTC timestamp on the page.
const timestampLayout = "2006-01-02 15:04:05 UTC"

// defaultTemplate is the built-in page template, used when no custom
// template path is configured.
//
//go:embed index.gohtml
var defaultTemplate string

// pageData carries the variables the template expects.
type pageData struct {
	// Libs is the ordered list of display names.
	Libs []string
	// Now is the formatted render timestamp.
	Now string
}

// Renderer writes the index page for an artifact set.
type Renderer struct {
	// templatePath optionally points at a custom template file. A configured
	// but missing template is fatal to the run; the embedded default cannot
	// go missing.
	templatePath string
	// outputPath is the fixed location of the rendered page.
	outputPath string
	// now supplies the page timestamp.
	now func() time.Time
}

// New creates a renderer writing IndexFilename into the artifact directory.
// An empty templatePath selects the embedded default template.
func New(artifactDir, templatePath string) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		outputPath:   filepath.Join(artifactDir, IndexFilename),
		now:          time.Now,
	}
}

// Render produces the page for the artifact set and overwrites any previous
// page at the fixed output location. Template problems are returned to the
// caller and terminate the run.
func (r *Renderer) Render(ctx context.Context, artifacts library.Set) error {
	text, err := r.templateText()
	if err != nil {
		return err
	}

	page, err := template.New(IndexFilename).Parse(text)
	if err != nil {
		return fmt.Errorf("parse index template: %w", err)
	}

	data := pageData{
		Libs: artifacts.Sorted(),
		Now:  r.now().UTC().Format(timestampLayout),
	}

	var rendered bytes.Buffer
	if err = page.Execute(&rendered, data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	if err = os.WriteFile(r.outputPath, rendered.Bytes(), indexPermissions); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	logger.InfoKV(ctx, "Index rendered", "path", r.outputPath, "libraries", len(data.Libs))

	return nil
}

// templateText loads the configured template file or falls back to the
// embedded default.
func (r *Renderer) templateText() (string, error) {
	if r.templatePath == "" {
		return defaultTemplate, nil
	}

	contents, err := os.ReadFile(filepath.Clean(r.templatePath))
	if err != nil {
		return "", fmt.Errorf("read index template: %w", err)
	}

	return string(contents), nil
}
