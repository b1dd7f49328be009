// Package pipeline runs one full reconciliation pass: fetch, normalize,
// thumbnail, merge into the archives, render the static outputs, and clean
// up. Exactly one pass runs at a time.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/archive"
	"github.com/alexalemi/kissimmee.fyi/internal/civicclerk"
	"github.com/alexalemi/kissimmee.fyi/internal/metrics"
	"github.com/alexalemi/kissimmee.fyi/internal/models"
	"github.com/alexalemi/kissimmee.fyi/internal/normalize"
	"github.com/alexalemi/kissimmee.fyi/internal/render"
	"github.com/alexalemi/kissimmee.fyi/internal/thumbs"
)

// Searcher is the slice of the notice API client the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, offset, limit int) ([]models.RawNotice, error)
}

// Calendar lists civic meetings for the rendered pages.
type Calendar interface {
	Events(ctx context.Context, filterDate string, op civicclerk.Op, orderBy string) ([]models.Event, error)
}

// Pipeline holds the collaborators of one reconciliation pass.
type Pipeline struct {
	Search     Searcher
	Calendar   Calendar // optional
	Normalizer *normalize.Normalizer
	Archives   *archive.Store
	Thumbs     *thumbs.Generator // optional
	SiteDir    string
	Feed       render.FeedInfo
	Limit      int
	Logger     *slog.Logger
	Now        func() time.Time
}

// Run executes one pass. A fetch failure or an archive save failure aborts
// the run and leaves every previously published file untouched; per-record
// failures only degrade the record they belong to.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.now()
	p.Logger.Info("pass starting", "limit", p.Limit)

	raw, err := p.Search.Search(ctx, -1, p.Limit)
	if err != nil {
		return fmt.Errorf("fetch notices: %w", err)
	}
	metrics.NoticesFetched.Add(float64(len(raw)))
	p.Logger.Info("notices fetched", "count", len(raw))

	batch := make([]models.CanonicalNotice, 0, len(raw))
	for _, r := range raw {
		n := p.Normalizer.Normalize(r)
		countMisses(n)
		batch = append(batch, n)
	}

	p.generateThumbnails(ctx, batch)

	// Reconcile each meeting-body group into its own archive.
	groups := make(map[string][]models.CanonicalNotice)
	for _, n := range batch {
		groups[n.MeetingBodyKey] = append(groups[n.MeetingBodyKey], n)
	}

	now := p.now()
	for key, group := range groups {
		a := p.Archives.Load(key)
		added, updated := archive.Merge(&a, group, now)
		if err := p.Archives.Save(key, a); err != nil {
			return fmt.Errorf("save archive %s: %w", key, err)
		}
		metrics.RecordsAdded.WithLabelValues(key).Add(float64(added))
		metrics.RecordsUpdated.WithLabelValues(key).Add(float64(updated))
		p.Logger.Info("archive reconciled",
			"body", key, "added", added, "updated", updated, "total", len(a.Notices))
	}

	if err := p.renderSite(ctx, batch, now); err != nil {
		return err
	}

	if p.Thumbs != nil {
		removed := thumbs.CleanupOrphans(p.Thumbs.Dir, batch, p.Logger)
		if removed > 0 {
			p.Logger.Info("orphaned thumbnails removed", "count", removed)
		}
	}

	metrics.LastRunUnix.SetToCurrentTime()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.Logger.Info("pass complete", "elapsed", time.Since(start).Truncate(time.Millisecond))
	return nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// generateThumbnails renders previews for the current batch. Failures are
// per-record: the notice simply keeps an empty thumbnail reference.
func (p *Pipeline) generateThumbnails(ctx context.Context, batch []models.CanonicalNotice) {
	if p.Thumbs == nil {
		return
	}
	for i := range batch {
		if batch[i].PDFURL == "" {
			continue
		}
		url, err := p.Thumbs.Generate(ctx, batch[i].PDFURL, batch[i].ID)
		if err != nil {
			metrics.ThumbnailFailures.Inc()
			p.Logger.Warn("thumbnail generation failed", "id", batch[i].ID, "error", err)
			continue
		}
		batch[i].ThumbnailURL = url
	}
}

// renderSite writes the index page from the current batch, one archive page
// per meeting body from the full archives, and the RSS feed.
func (p *Pipeline) renderSite(ctx context.Context, batch []models.CanonicalNotice, updated time.Time) error {
	if err := os.MkdirAll(p.SiteDir, 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	events := p.upcomingMeetings(ctx)

	if err := p.renderPage("template.html", "index.html", batch, events, updated); err != nil {
		return err
	}

	for _, key := range p.Archives.Keys() {
		a := p.Archives.Load(key)
		notices := render.StripThumbnails(archive.Sorted(a))
		out := "archive_" + key + ".html"
		if err := p.renderPage("archive_template.html", out, notices, events, updated); err != nil {
			return err
		}
	}

	feed, err := render.RSS(p.Feed, batch, updated)
	if err != nil {
		return err
	}
	rssPath := filepath.Join(p.SiteDir, "rss.xml")
	if err := os.WriteFile(rssPath, feed, 0o644); err != nil {
		return fmt.Errorf("write rss feed: %w", err)
	}
	p.Logger.Info("feed written", "path", rssPath, "items", len(batch))
	return nil
}

func (p *Pipeline) renderPage(templateName, outName string, notices []models.CanonicalNotice, events []models.Event, updated time.Time) error {
	tmpl, err := os.ReadFile(filepath.Join(p.SiteDir, templateName))
	if err != nil {
		return fmt.Errorf("read template %s: %w", templateName, err)
	}

	page := render.Page(string(tmpl), notices, events, updated)
	outPath := filepath.Join(p.SiteDir, outName)
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write page %s: %w", outName, err)
	}
	p.Logger.Info("page written", "path", outPath, "notices", len(notices))
	return nil
}

// upcomingMeetings asks the calendar for future events. Best effort: the
// pages just omit the list when the calendar is down.
func (p *Pipeline) upcomingMeetings(ctx context.Context) []models.Event {
	if p.Calendar == nil {
		return nil
	}
	events, err := p.Calendar.Events(ctx, p.now().Format("2006-01-02"), civicclerk.After,
		"startDateTime asc, eventName asc")
	if err != nil {
		p.Logger.Warn("could not list upcoming meetings", "error", err)
		return nil
	}
	return events
}

func countMisses(n models.CanonicalNotice) {
	miss := func(field string, empty bool) {
		if empty {
			metrics.ExtractionMisses.WithLabelValues(field).Inc()
		}
	}
	miss("meeting_date", n.MeetingDate == "")
	miss("property_address", n.PropertyAddress == "")
	miss("zoning_change", n.ZoningChange == "")
	miss("reference_num", n.ReferenceNum == "")
	miss("parcel_id", n.ParcelID == "")
	miss("amendment_type", n.AmendmentType == nil)
}
