// Package normalize composes the field extractors and the classifier into
// one canonical notice record per raw API notice.
package normalize

import (
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/extract"
	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

const maxDescriptionLen = 150

// Normalizer turns raw notices into canonical records. It carries the
// source site base URL for detail links and logs one sample payload per
// instance so a run's logs show what the API is actually returning.
type Normalizer struct {
	SourceBase string
	logger     *slog.Logger
	sampled    bool
}

// New returns a Normalizer. sourceBase is the public site the notice detail
// hrefs are relative to.
func New(sourceBase string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		SourceBase: strings.TrimRight(sourceBase, "/"),
		logger:     logger,
	}
}

// UnescapeText repeatedly HTML-unescapes s until a fixed point is reached.
// Source text arrives multiply-encoded; unescaping already-clean text is a
// no-op, so the loop always terminates.
func UnescapeText(s string) string {
	for {
		next := html.UnescapeString(s)
		if next == s {
			return s
		}
		s = next
	}
}

// Normalize builds one CanonicalNotice from a raw API notice. first_seen
// and last_seen are left unset; only the reconciler assigns provenance.
func (n *Normalizer) Normalize(raw models.RawNotice) models.CanonicalNotice {
	if !n.sampled {
		n.logger.Debug("sample raw notice",
			"id", raw.ID.String(),
			"subcategory", raw.Subcategory,
			"paper", raw.Paper,
			"city", raw.City,
		)
		n.sampled = true
	}

	text := UnescapeText(raw.Notice)

	out := models.CanonicalNotice{
		ID:          raw.ID.String(),
		NoticeText:  text,
		PubDate:     raw.Date,
		Newspaper:   raw.Paper,
		City:        raw.City,
		Subcategory: raw.Subcategory,
	}

	if v, ok := extract.MeetingDate(text); ok {
		out.MeetingDate = v
	}
	if v, ok := extract.PropertyAddress(text); ok {
		out.PropertyAddress = v
	}
	if v, ok := extract.ZoningChange(text); ok {
		out.ZoningChange = v
	}
	if v, ok := extract.ReferenceNumber(text); ok {
		out.ReferenceNum = v
	}
	if v, ok := extract.ParcelID(text); ok {
		out.ParcelID = v
	}
	if v, ok := extract.AmendmentType(out.ReferenceNum); ok {
		out.AmendmentType = &v
	}

	out.Description = shortDescription(text, out.PropertyAddress, out.ZoningChange, out.ReferenceNum)
	out.Title = title(out.ReferenceNum, out.PropertyAddress, raw.Subcategory, raw.City)

	if href := raw.Links.Self.Href; href != "" {
		out.Link = n.SourceBase + href
	}
	out.PDFURL = raw.Links.Media.Href

	// The image field sometimes carries the literal string "pdf" instead
	// of a URL.
	if img := raw.Image; img != "pdf" && (strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://")) {
		out.ImageURL = img
	}

	out.PubDateFormatted, out.PubDateRFC822 = n.formatPubDate(raw.Date)

	out.MeetingBodyKey, out.MeetingBodyName = extract.MeetingBody(text)

	return out
}

// shortDescription builds a concise summary, degrading from
// "<action> at <address>: <zoning>" down to the first sentence of the
// notice text.
func shortDescription(text, address, zoning, refNum string) string {
	action := "Notice"
	switch {
	case strings.Contains(refNum, "ZMA"):
		action = "Rezoning"
	case strings.Contains(refNum, "PUD"):
		action = "Planned Unit Development"
	case strings.Contains(refNum, "VAR"):
		action = "Variance"
	}

	switch {
	case address != "" && zoning != "":
		return action + " at " + address + ": " + zoning
	case address != "":
		return action + " at " + address
	case zoning != "":
		return action + ": " + zoning
	}

	if text == "" {
		return ""
	}
	first, _, _ := strings.Cut(text, ".")
	if r := []rune(first); len(r) > maxDescriptionLen {
		return string(r[:maxDescriptionLen-3]) + "..."
	}
	return first
}

// title prefers the reference number, then the subcategory, then a generic
// placeholder.
func title(refNum, address, subcategory, city string) string {
	if refNum != "" {
		if address != "" {
			return refNum + " - " + address
		}
		return refNum
	}

	t := subcategory
	if t == "" {
		t = "Public Notice"
	}
	if city != "" {
		t += " - " + city
	}
	return t
}

// formatPubDate renders an ISO date both for display and as RFC 822 for
// feed output. Unparseable input degrades: the raw string becomes the
// display form and the RFC 822 form stays empty.
func (n *Normalizer) formatPubDate(date string) (formatted, rfc822 string) {
	if date == "" {
		return "", ""
	}
	dt, err := time.Parse("2006-01-02", date)
	if err != nil {
		n.logger.Warn("could not parse publication date", "date", date, "error", err)
		return date, ""
	}
	return dt.Format("January 02, 2006"), dt.Format("Mon, 02 Jan 2006") + " 00:00:00 +0000"
}
