// Package render emits the static HTML pages and the RSS feed from
// canonical notice records. Pages are plain templates with comment
// placeholders; there is no embedded scripting in the substitution itself.
package render

import (
	"html"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/codes"
	"github.com/alexalemi/kissimmee.fyi/internal/extract"
	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

const (
	noticesPlaceholder  = "<!-- NOTICES_PLACEHOLDER -->"
	updatedPlaceholder  = "<!-- UPDATED_PLACEHOLDER -->"
	meetingsPlaceholder = "<!-- MEETINGS_PLACEHOLDER -->"

	parcelSearchURL = "https://search.property-appraiser.org/Search/MainSearch?pin="
)

// Page substitutes the notice blocks and the updated timestamp into a page
// template. The meetings placeholder is optional in templates; it is only
// replaced when present.
func Page(template string, notices []models.CanonicalNotice, events []models.Event, updated time.Time) string {
	var blocks []string
	for _, n := range notices {
		blocks = append(blocks, NoticeHTML(n))
	}
	body := "<p>No notices found.</p>"
	if len(blocks) > 0 {
		body = strings.Join(blocks, "\n")
	}

	out := strings.Replace(template, noticesPlaceholder, body, 1)
	out = strings.Replace(out, updatedPlaceholder,
		"Last updated: "+updated.UTC().Format("January 02, 2006 at 03:04 PM")+" UTC", 1)
	if strings.Contains(out, meetingsPlaceholder) {
		out = strings.Replace(out, meetingsPlaceholder, MeetingsHTML(events), 1)
	}
	return out
}

// NoticeHTML renders one notice block.
func NoticeHTML(n models.CanonicalNotice) string {
	var b strings.Builder
	b.WriteString(`<div class="notice">` + "\n")

	if n.ThumbnailURL != "" {
		b.WriteString(`<div class="notice-thumbnail">` + "\n")
		img := `<img src="` + html.EscapeString(n.ThumbnailURL) + `" alt="PDF Preview" loading="lazy">`
		if n.PDFURL != "" {
			b.WriteString(`<a href="` + html.EscapeString(n.PDFURL) + `" target="_blank">` + img + `</a>` + "\n")
		} else {
			b.WriteString(img + "\n")
		}
		b.WriteString(`</div>` + "\n")
	}

	b.WriteString(`<div class="notice-content">` + "\n")

	// Title, linked to the PDF when there is one, with an amendment badge.
	b.WriteString(`<div class="notice-title">` + "\n")
	title := codes.Gloss(html.EscapeString(n.Title))
	if n.PDFURL != "" {
		b.WriteString(`<a href="` + html.EscapeString(n.PDFURL) + `" target="_blank">` + title + `</a>` + "\n")
	} else {
		b.WriteString(title + "\n")
	}
	if amt := n.AmendmentType; amt != nil {
		b.WriteString(`<span class="notice-amendment-type ` + strings.ToLower(amt.Code) +
			`" title="` + html.EscapeString(amt.Name) + `">` + html.EscapeString(amt.Code) + `</span>` + "\n")
	}
	b.WriteString(`</div>` + "\n")

	if n.MeetingDate != "" {
		b.WriteString(`<div class="notice-meeting-date">📅 Meeting: ` + html.EscapeString(n.MeetingDate) + `</div>` + "\n")
	}

	if n.Description != "" {
		b.WriteString(`<div class="notice-description">` + codes.Gloss(html.EscapeString(n.Description)) + `</div>` + "\n")
	}

	var details []string
	if n.PropertyAddress != "" {
		details = append(details, `📍 `+html.EscapeString(n.PropertyAddress))
	}
	if n.ZoningChange != "" {
		details = append(details, `🏗️ `+codes.Gloss(html.EscapeString(n.ZoningChange)))
	}
	if n.ParcelID != "" {
		details = append(details, `🗂️ Parcel: `+ParcelLinks(n.ParcelID))
	}
	if len(details) > 0 {
		b.WriteString(`<div class="notice-details">` + "\n")
		b.WriteString(strings.Join(details, "<br>") + "\n")
		b.WriteString(`</div>` + "\n")
	}

	if n.PubDateFormatted != "" {
		b.WriteString(`<div class="notice-pub-date">Published: ` + html.EscapeString(n.PubDateFormatted) + `</div>` + "\n")
	}

	var links []string
	if n.PDFURL != "" {
		links = append(links, `<a href="`+html.EscapeString(n.PDFURL)+`" target="_blank">View PDF</a>`)
	}
	if n.Link != "" {
		links = append(links, `<a href="`+html.EscapeString(n.Link)+`" target="_blank">Details</a>`)
	}
	if n.NoticeText != "" {
		links = append(links, `<a href="#" class="expand-link" onclick="toggleFullText(event, `+n.ID+`); return false;">Show full text</a>`)
	}
	if len(links) > 0 {
		b.WriteString(`<div class="notice-links">` + "\n")
		b.WriteString(strings.Join(links, " | ") + "\n")
		b.WriteString(`</div>` + "\n")
	}

	if n.NoticeText != "" {
		b.WriteString(`<div id="full-text-` + n.ID + `" class="notice-full-text" style="display: none;">` + "\n")
		b.WriteString(`<div class="full-text-content">` + html.EscapeString(n.NoticeText) + `</div>` + "\n")
		b.WriteString(`</div>` + "\n")
	}

	b.WriteString(`</div>` + "\n") // notice-content
	b.WriteString(`</div>`)        // notice
	return b.String()
}

// ParcelLinks renders one or more parcel IDs as property-appraiser search
// links, comma-joined.
func ParcelLinks(parcelID string) string {
	parcels := extract.SplitParcelIDs(parcelID)
	if len(parcels) == 0 {
		return html.EscapeString(parcelID)
	}

	links := make([]string, 0, len(parcels))
	for _, p := range parcels {
		pin := extract.ParcelSearchValue(p)
		if pin == "" {
			links = append(links, html.EscapeString(p))
			continue
		}
		links = append(links, `<a href="`+parcelSearchURL+pin+`" target="_blank">`+html.EscapeString(p)+`</a>`)
	}
	return strings.Join(links, ", ")
}

// MeetingsHTML renders the upcoming-meetings list.
func MeetingsHTML(events []models.Event) string {
	if len(events) == 0 {
		return "<p>No upcoming meetings.</p>"
	}
	var b strings.Builder
	b.WriteString(`<ul class="meetings">` + "\n")
	for _, e := range events {
		date := e.StartDateTime
		if len(date) >= 10 {
			date = date[:10]
		}
		b.WriteString(`<li>` + html.EscapeString(date) + ` — ` + html.EscapeString(e.EventName) + `</li>` + "\n")
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// StripThumbnails copies notices with thumbnail references cleared, for the
// archive pages which render without previews.
func StripThumbnails(notices []models.CanonicalNotice) []models.CanonicalNotice {
	out := make([]models.CanonicalNotice, len(notices))
	for i, n := range notices {
		n.ThumbnailURL = ""
		out[i] = n
	}
	return out
}
