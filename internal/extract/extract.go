// Package extract pulls structured civic-planning fields out of free-form
// notice text. Every extractor is a pure function over the same normalized
// text and degrades to (zero value, false) when its pattern does not match.
package extract

import (
	"regexp"
	"strings"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

var (
	// "on Wednesday, November 19, 2025 at 6:00 p.m."
	meetingDateRe = regexp.MustCompile(`(?i)on\s+(\w+),\s+(\w+)\s+(\d{1,2}),\s+(\d{4})\s+at\s+([\d:]+\s*[ap]\.?m\.?)`)

	// "located at approximately 2220 Fortune Road," (also terminated by
	// "Parcel", a period, or "Legal")
	addressRe = regexp.MustCompile(`(?i)located at(?:\s+approximately)?\s+([^,\n.]+?)(?:,|\s+Parcel|\.|\s+Legal)`)

	fromRe = regexp.MustCompile(`(?i)FROM:\s*([^\n]+?)\s+(?:City|TO:)`)
	toRe   = regexp.MustCompile(`(?i)TO:\s*([^\n]+?)\s+(?:City|The)`)

	// "Reference # ZMA-25-0009"
	refNumRe = regexp.MustCompile(`(?i)Reference\s*#\s*(\S+)`)

	// "Parcel ID: 19-25-30-00U0-0050-0000" / "Parcel IDs: ..."
	parcelRe = regexp.MustCompile(`(?i)Parcel IDs?:\s*([^\n]+?)(?:\s+Legal|$)`)
	// fallback: "Parcel 1: 19-25-30... Together with Parcel 2: ..."
	parcelAltRe = regexp.MustCompile(`(?i)Parcel\s+\d+:\s*([0-9-]+)`)

	parcelSplitRe = regexp.MustCompile(`\s+and\s+|,\s*`)
)

// MeetingDate extracts the meeting date-and-time phrase from notice text.
func MeetingDate(text string) (string, bool) {
	m := meetingDateRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1] + ", " + m[2] + " " + m[3] + ", " + m[4] + " at " + m[5], true
}

// PropertyAddress extracts the property address span from notice text.
func PropertyAddress(text string) (string, bool) {
	m := addressRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ZoningChange extracts a "from → to" zoning pair. Both the FROM and the TO
// span must be present; a lone half yields no result.
func ZoningChange(text string) (string, bool) {
	from := fromRe.FindStringSubmatch(text)
	to := toRe.FindStringSubmatch(text)
	if from == nil || to == nil {
		return "", false
	}
	return strings.TrimSpace(from[1]) + " → " + strings.TrimSpace(to[1]), true
}

// ReferenceNumber extracts the "Reference #" token from notice text.
func ReferenceNumber(text string) (string, bool) {
	m := refNumRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ParcelID extracts one or more parcel identifiers. The "Parcel ID(s):"
// form is tried first; the repeated "Parcel <n>:" form is a fallback only,
// with all matches joined by " and ".
func ParcelID(text string) (string, bool) {
	if m := parcelRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	var parcels []string
	for _, m := range parcelAltRe.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			parcels = append(parcels, m[1])
		}
	}
	if len(parcels) == 0 {
		return "", false
	}
	return strings.Join(parcels, " and "), true
}

// SplitParcelIDs splits a joined parcel string (" and " or comma separated)
// into individual identifiers.
func SplitParcelIDs(s string) []string {
	var out []string
	for _, p := range parcelSplitRe.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParcelSearchValue converts a parcel ID to the compact form the property
// appraiser search expects (no spaces, no dashes).
func ParcelSearchValue(parcel string) string {
	parcel = strings.ReplaceAll(parcel, " ", "")
	return strings.ReplaceAll(parcel, "-", "")
}

// amendmentOrder fixes the priority when a reference number contains more
// than one code: earlier entries win (ZMA beats PUD).
var amendmentOrder = []string{"LUPA", "ZMA", "PUD", "VAR", "CUP", "SPR"}

var amendmentNames = map[string]string{
	"LUPA": "Future Land Use Amendment",
	"ZMA":  "Zoning Map Amendment",
	"PUD":  "Planned Unit Development",
	"VAR":  "Variance",
	"CUP":  "Conditional Use Permit",
	"SPR":  "Site Plan Review",
}

// AmendmentType classifies a reference number by the first known amendment
// code it contains.
func AmendmentType(refNum string) (models.AmendmentType, bool) {
	if refNum == "" {
		return models.AmendmentType{}, false
	}
	upper := strings.ToUpper(refNum)
	for _, code := range amendmentOrder {
		if strings.Contains(upper, code) {
			return models.AmendmentType{Code: code, Name: amendmentNames[code]}, true
		}
	}
	return models.AmendmentType{}, false
}

// meetingBodies are checked in order against lowercased notice text.
var meetingBodies = []struct {
	key, name, phrase string
}{
	{"pab", "Planning Advisory Board", "planning advisory board"},
	{"commission", "City Commission", "city commission"},
	{"drc", "Development Review Committee", "development review committee"},
	{"code-enforcement", "Code Enforcement Board", "code enforcement board"},
}

// MeetingBody classifies which civic body a notice pertains to.
// Classification is total: unmatched text lands in the catch-all category.
func MeetingBody(text string) (key, name string) {
	lower := strings.ToLower(text)
	for _, b := range meetingBodies {
		if strings.Contains(lower, b.phrase) {
			return b.key, b.name
		}
	}
	return "other", "Other Notices"
}
