package thumbs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
	"github.com/alexalemi/kissimmee.fyi/internal/thumbs"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeConverter avoids shelling out in tests.
type fakeConverter struct {
	out []byte
	err error
}

func (f fakeConverter) Convert(_ context.Context, _ []byte) ([]byte, error) {
	return f.out, f.err
}

func TestGenerateWritesThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "thumbnails")
	g := thumbs.NewGenerator(dir, fakeConverter{out: []byte("jpeg-bytes")}, time.Second, discard())

	url, err := g.Generate(context.Background(), srv.URL+"/notice.pdf", "42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if url != "thumbnails/42.jpg" {
		t.Errorf("url = %q", url)
	}

	got, err := os.ReadFile(filepath.Join(dir, "42.jpg"))
	if err != nil {
		t.Fatalf("read thumbnail: %v", err)
	}
	if string(got) != "jpeg-bytes" {
		t.Errorf("thumbnail contents = %q", got)
	}
}

func TestGenerateConverterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	g := thumbs.NewGenerator(t.TempDir(), fakeConverter{err: errors.New("boom")}, time.Second, discard())
	if _, err := g.Generate(context.Background(), srv.URL, "1"); err == nil {
		t.Fatal("expected converter error")
	}
}

func TestGenerateDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	g := thumbs.NewGenerator(t.TempDir(), fakeConverter{out: []byte("x")}, time.Second, discard())
	if _, err := g.Generate(context.Background(), srv.URL, "1"); err == nil {
		t.Fatal("expected download error")
	}
}

func TestCleanupOrphans(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.jpg", "2.jpg", "9.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	current := []models.CanonicalNotice{{ID: "1"}, {ID: "2"}}
	removed := thumbs.CleanupOrphans(dir, current, discard())
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(filepath.Join(dir, "9.jpg")); !os.IsNotExist(err) {
		t.Error("orphan 9.jpg still present")
	}
	for _, keep := range []string{"1.jpg", "2.jpg", "notes.txt"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s should have been kept: %v", keep, err)
		}
	}
}

func TestCleanupOrphansMissingDir(t *testing.T) {
	if removed := thumbs.CleanupOrphans(filepath.Join(t.TempDir(), "absent"), nil, discard()); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
