// Command migrate splits a legacy single-archive file into the
// per-meeting-body archives the daemon reads. It classifies each notice by
// its stored text, keeps the legacy file as a .bak, and is safe to re-run.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/archive"
	"github.com/alexalemi/kissimmee.fyi/internal/extract"
	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

func main() {
	var (
		dataDir = flag.String("data-dir", "data", "directory the per-body archives are written to")
		legacy  = flag.String("legacy", "data/notices.json", "path to the legacy single archive")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if _, err := os.Stat(*legacy); os.IsNotExist(err) {
		logger.Info("no legacy archive, nothing to do", "path", *legacy)
		return
	}

	old := archive.Load(*legacy, logger)
	if len(old.Notices) == 0 {
		logger.Error("legacy archive is empty or unreadable, refusing to migrate", "path", *legacy)
		os.Exit(1)
	}
	logger.Info("legacy archive loaded", "path", *legacy, "notices", len(old.Notices))

	store := archive.NewStore(*dataDir, logger)

	// Group by meeting body, classifying from the stored text when the
	// record predates classification.
	groups := make(map[string]map[string]models.CanonicalNotice)
	for id, n := range old.Notices {
		if n.MeetingBodyKey == "" {
			n.MeetingBodyKey, n.MeetingBodyName = extract.MeetingBody(n.NoticeText)
		}
		if groups[n.MeetingBodyKey] == nil {
			groups[n.MeetingBodyKey] = make(map[string]models.CanonicalNotice)
		}
		groups[n.MeetingBodyKey][id] = n
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, notices := range groups {
		// Merge into any archive that already exists so a re-run never
		// loses records written since the first migration.
		a := store.Load(key)
		if a.Notices == nil {
			a.Notices = make(map[string]models.CanonicalNotice)
		}
		moved := 0
		for id, n := range notices {
			if _, exists := a.Notices[id]; !exists {
				a.Notices[id] = n
				moved++
			}
		}
		a.LastUpdated = now
		if err := store.Save(key, a); err != nil {
			logger.Error("could not save archive", "body", key, "error", err)
			os.Exit(1)
		}
		logger.Info("archive written", "body", key, "moved", moved, "total", len(a.Notices))
	}

	backup := *legacy + ".bak"
	if err := os.Rename(*legacy, backup); err != nil {
		logger.Error("could not move legacy archive aside", "error", err)
		os.Exit(1)
	}
	logger.Info("migration complete",
		"bodies", len(groups), "backup", filepath.Base(backup))
}
