// Package thumbs generates JPEG preview thumbnails for notice PDFs and
// cleans up thumbnails that no longer belong to any current notice. The
// actual PDF-to-image conversion is an external capability.
package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

// Converter turns PDF bytes into a JPEG preview of the first page.
type Converter interface {
	Convert(ctx context.Context, pdf []byte) ([]byte, error)
}

// CommandConverter shells out to an external converter that reads a PDF on
// stdin and writes a JPEG to stdout (e.g. "pdftoppm -jpeg -singlefile
// -r 150 - -").
type CommandConverter struct {
	Command string
	Args    []string
}

// Convert runs the external command once.
func (c CommandConverter) Convert(ctx context.Context, pdf []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Stdin = bytes.NewReader(pdf)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %s: %w", c.Command, msg, err)
		}
		return nil, fmt.Errorf("%s: %w", c.Command, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output", c.Command)
	}
	return out.Bytes(), nil
}

// Generator downloads notice PDFs and writes per-notice thumbnails.
type Generator struct {
	Dir       string // filesystem directory thumbnails are written to
	URLPrefix string // site-relative prefix recorded on the notice, e.g. "thumbnails"
	Converter Converter
	client    *http.Client
	logger    *slog.Logger
}

// NewGenerator returns a Generator writing JPEGs under dir.
func NewGenerator(dir string, conv Converter, timeout time.Duration, logger *slog.Logger) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{
		Dir:       dir,
		URLPrefix: filepath.Base(dir),
		Converter: conv,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Generate downloads the PDF, converts its first page, and writes
// <id>.jpg under Dir. It returns the site-relative thumbnail path.
func (g *Generator) Generate(ctx context.Context, pdfURL, noticeID string) (string, error) {
	pdf, err := g.download(ctx, pdfURL)
	if err != nil {
		return "", err
	}

	img, err := g.Converter.Convert(ctx, pdf)
	if err != nil {
		return "", fmt.Errorf("convert pdf: %w", err)
	}

	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnails dir: %w", err)
	}
	path := filepath.Join(g.Dir, noticeID+".jpg")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}

	return g.URLPrefix + "/" + noticeID + ".jpg", nil
}

func (g *Generator) download(ctx context.Context, pdfURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pdf request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// CleanupOrphans deletes .jpg files in dir whose basename is not the id of
// any current notice. It returns how many files were removed.
func CleanupOrphans(dir string, current []models.CanonicalNotice, logger *slog.Logger) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	valid := make(map[string]bool, len(current))
	for _, n := range current {
		valid[n.ID] = true
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".jpg" {
			continue
		}
		id := strings.TrimSuffix(name, ".jpg")
		if valid[id] {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("could not delete orphaned thumbnail", "path", path, "error", err)
			continue
		}
		logger.Debug("deleted orphaned thumbnail", "file", name)
		removed++
	}
	return removed
}
