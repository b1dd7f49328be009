// Package archive is the durable keyed store of canonical notices and the
// reconciler that folds fresh batches into it. The archive only grows: a
// notice that drops out of the live feed window is never pruned.
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

// Store manages one archive file per meeting-body key under a data
// directory. It is not safe for concurrent reconciliation passes against
// the same directory; the caller runs exactly one pass at a time.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Path returns the archive file path for a meeting-body key.
func (s *Store) Path(bodyKey string) string {
	return filepath.Join(s.dir, "notices_"+bodyKey+".json")
}

// Load reads the archive for a meeting-body key.
func (s *Store) Load(bodyKey string) models.Archive {
	return Load(s.Path(bodyKey), s.logger)
}

// Save persists the archive for a meeting-body key.
func (s *Store) Save(bodyKey string, a models.Archive) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return Save(s.Path(bodyKey), a)
}

// Keys lists the meeting-body keys that have an archive file on disk.
func (s *Store) Keys() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if len(name) > len("notices_.json") && name[:8] == "notices_" && filepath.Ext(name) == ".json" {
			keys = append(keys, name[8:len(name)-5])
		}
	}
	sort.Strings(keys)
	return keys
}

// Load reads an archive file. A missing file yields an empty archive; a
// corrupt file also yields an empty archive but is logged loudly, because
// starting fresh silently discards whatever history the file held.
func Load(path string, logger *slog.Logger) models.Archive {
	empty := models.Archive{Notices: make(map[string]models.CanonicalNotice)}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no archive on disk, starting empty", "path", path)
		return empty
	}
	if err != nil {
		logger.Error("could not read archive, starting empty; prior history is unavailable this run",
			"path", path, "error", err)
		return empty
	}

	var a models.Archive
	if err := json.Unmarshal(b, &a); err != nil {
		logger.Error("archive is corrupt, starting empty; its history will be discarded on the next save",
			"path", path, "error", err)
		return empty
	}
	if a.Notices == nil {
		a.Notices = make(map[string]models.CanonicalNotice)
	}
	return a
}

// Save writes the archive as pretty-printed UTF-8 JSON with non-ASCII text
// preserved. The file is written to a temporary name in the same directory
// and renamed into place, so a failed write never leaves a half-written
// archive visible.
func Save(path string, a models.Archive) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".archive-*.json")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}

// Merge folds a batch of freshly normalized notices into the archive and
// reports how many records were inserted and how many updated.
//
// Existing records are merged field by field: new values win, but a field
// empty in the new record keeps its archived value. first_seen is set once
// on insert and never changes; last_seen is refreshed whenever the record
// reappears. Records absent from the batch are untouched. Duplicate IDs
// within a batch: last one wins.
func Merge(a *models.Archive, batch []models.CanonicalNotice, now time.Time) (added, updated int) {
	stamp := now.UTC().Format(time.RFC3339)
	if a.Notices == nil {
		a.Notices = make(map[string]models.CanonicalNotice, len(batch))
	}

	seen := make(map[string]bool, len(batch))
	for _, n := range batch {
		old, exists := a.Notices[n.ID]
		if !exists {
			n.FirstSeen = stamp
			n.LastSeen = stamp
			a.Notices[n.ID] = n
			if !seen[n.ID] {
				added++
			}
		} else {
			merged := overlay(old, n)
			merged.LastSeen = stamp
			a.Notices[n.ID] = merged
			if !seen[n.ID] {
				updated++
			}
		}
		seen[n.ID] = true
	}

	a.LastUpdated = stamp
	return added, updated
}

// overlay copies every non-empty field of the new record over the old one.
// Provenance fields are deliberately excluded.
func overlay(old, fresh models.CanonicalNotice) models.CanonicalNotice {
	out := old
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Title, fresh.Title)
	set(&out.Description, fresh.Description)
	set(&out.NoticeText, fresh.NoticeText)
	set(&out.PubDate, fresh.PubDate)
	set(&out.PubDateFormatted, fresh.PubDateFormatted)
	set(&out.PubDateRFC822, fresh.PubDateRFC822)
	set(&out.PDFURL, fresh.PDFURL)
	set(&out.Link, fresh.Link)
	set(&out.ImageURL, fresh.ImageURL)
	set(&out.ThumbnailURL, fresh.ThumbnailURL)
	set(&out.Newspaper, fresh.Newspaper)
	set(&out.City, fresh.City)
	set(&out.Subcategory, fresh.Subcategory)
	set(&out.MeetingDate, fresh.MeetingDate)
	set(&out.PropertyAddress, fresh.PropertyAddress)
	set(&out.ZoningChange, fresh.ZoningChange)
	set(&out.ReferenceNum, fresh.ReferenceNum)
	set(&out.ParcelID, fresh.ParcelID)
	set(&out.MeetingBodyKey, fresh.MeetingBodyKey)
	set(&out.MeetingBodyName, fresh.MeetingBodyName)
	if fresh.AmendmentType != nil {
		out.AmendmentType = fresh.AmendmentType
	}
	return out
}

// Sorted returns the archive's notices newest-first by publication date.
// ISO dates sort correctly as strings; undated notices sink to the end.
func Sorted(a models.Archive) []models.CanonicalNotice {
	out := make([]models.CanonicalNotice, 0, len(a.Notices))
	for _, n := range a.Notices {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PubDate != out[j].PubDate {
			return out[i].PubDate > out[j].PubDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}
