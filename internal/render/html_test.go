package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
	"github.com/alexalemi/kissimmee.fyi/internal/render"
)

const pageTemplate = `<html><body>
<section id="meetings"><!-- MEETINGS_PLACEHOLDER --></section>
<main><!-- NOTICES_PLACEHOLDER --></main>
<footer><!-- UPDATED_PLACEHOLDER --></footer>
</body></html>`

func TestPageSubstitution(t *testing.T) {
	updated := time.Date(2025, 11, 2, 14, 30, 0, 0, time.UTC)
	events := []models.Event{
		{ID: 101, EventName: "Planning Advisory Board", StartDateTime: "2025-11-19T18:00:00Z"},
	}

	got := render.Page(pageTemplate, []models.CanonicalNotice{sampleNotice()}, events, updated)

	if strings.Contains(got, "PLACEHOLDER") {
		t.Error("placeholders left in page")
	}
	if !strings.Contains(got, "Last updated: November 02, 2025 at 02:30 PM UTC") {
		t.Errorf("updated stamp missing:\n%s", got)
	}
	if !strings.Contains(got, "2025-11-19 — Planning Advisory Board") {
		t.Error("meetings list missing")
	}
	if !strings.Contains(got, `class="notice"`) {
		t.Error("notice block missing")
	}
}

func TestPageEmpty(t *testing.T) {
	got := render.Page(pageTemplate, nil, nil, time.Now())
	if !strings.Contains(got, "No notices found.") {
		t.Error("empty-state text missing")
	}
	if !strings.Contains(got, "No upcoming meetings.") {
		t.Error("empty meetings text missing")
	}
}

func TestNoticeHTML(t *testing.T) {
	got := render.NoticeHTML(sampleNotice())

	if !strings.Contains(got, `<img src="thumbnails/42.jpg"`) {
		t.Error("thumbnail missing")
	}
	if !strings.Contains(got, `<span class="notice-amendment-type zma" title="Zoning Map Amendment">ZMA</span>`) {
		t.Error("amendment badge missing")
	}
	if !strings.Contains(got, "📅 Meeting: Wednesday, November 19, 2025 at 6:00 p.m.") {
		t.Error("meeting date missing")
	}
	if !strings.Contains(got, `href="https://search.property-appraiser.org/Search/MainSearch?pin=19253000U000500000"`) {
		t.Error("parcel link missing")
	}
	// Zoning codes in the details get glossed.
	if !strings.Contains(got, `<abbr title="Multiple Family Medium Density Residential">RC-1</abbr>`) {
		t.Error("zoning gloss missing")
	}
	if !strings.Contains(got, `id="full-text-42"`) {
		t.Error("full text section missing")
	}
	if !strings.Contains(got, "View PDF") || !strings.Contains(got, "Show full text") {
		t.Error("links row incomplete")
	}
}

func TestNoticeHTMLEscapes(t *testing.T) {
	n := models.CanonicalNotice{
		ID:         "1",
		Title:      `Notice <script>alert("x")</script>`,
		NoticeText: "a & b < c",
	}
	got := render.NoticeHTML(n)

	if strings.Contains(got, "<script>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(got, "a &amp; b &lt; c") {
		t.Error("notice text not escaped")
	}
}

func TestParcelLinksMultiple(t *testing.T) {
	got := render.ParcelLinks("19-25-30-0001 and 19-25-30-0002")

	if strings.Count(got, "<a href=") != 2 {
		t.Errorf("expected 2 links, got %s", got)
	}
	if !strings.Contains(got, "pin=1925300001") || !strings.Contains(got, "pin=1925300002") {
		t.Errorf("pins not compacted: %s", got)
	}
}

func TestStripThumbnails(t *testing.T) {
	in := []models.CanonicalNotice{sampleNotice()}
	out := render.StripThumbnails(in)

	if out[0].ThumbnailURL != "" {
		t.Error("thumbnail not cleared")
	}
	if in[0].ThumbnailURL == "" {
		t.Error("input mutated")
	}
}
