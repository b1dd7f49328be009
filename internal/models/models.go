package models

import "encoding/json"

// RawNotice mirrors one notice object as returned by the public-records
// search API. It is immutable as received and never persisted directly.
type RawNotice struct {
	ID          json.Number `json:"id"`
	Notice      string      `json:"notice"`
	Subcategory string      `json:"subcategory"`
	Paper       string      `json:"paper"`
	City        string      `json:"city"`
	Date        string      `json:"date"`
	Image       string      `json:"image"`
	Links       RawLinks    `json:"_links"`
}

// RawLinks holds the HAL-style link references on a raw notice.
type RawLinks struct {
	Self  RawLink `json:"self"`
	Media RawLink `json:"media"`
}

// RawLink is a single HAL link object.
type RawLink struct {
	Href string `json:"href"`
}

// AmendmentType pairs a short amendment code (e.g. "ZMA") with its full name.
type AmendmentType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CanonicalNotice is the durable unit of record in the archive. Extracted
// fields are optional: an empty string (or nil AmendmentType) means no
// pattern matched, and an empty field in a fresh batch never clears the
// archived value during a merge.
type CanonicalNotice struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	NoticeText       string         `json:"notice_text,omitempty"`
	PubDate          string         `json:"pub_date,omitempty"`
	PubDateFormatted string         `json:"pub_date_formatted,omitempty"`
	PubDateRFC822    string         `json:"pub_date_rfc822,omitempty"`
	PDFURL           string         `json:"pdf_url,omitempty"`
	Link             string         `json:"link,omitempty"`
	ImageURL         string         `json:"image_url,omitempty"`
	ThumbnailURL     string         `json:"thumbnail_url,omitempty"`
	Newspaper        string         `json:"newspaper,omitempty"`
	City             string         `json:"city,omitempty"`
	Subcategory      string         `json:"subcategory,omitempty"`
	MeetingDate      string         `json:"meeting_date,omitempty"`
	PropertyAddress  string         `json:"property_address,omitempty"`
	ZoningChange     string         `json:"zoning_change,omitempty"`
	ReferenceNum     string         `json:"reference_num,omitempty"`
	ParcelID         string         `json:"parcel_id,omitempty"`
	AmendmentType    *AmendmentType `json:"amendment_type,omitempty"`
	MeetingBodyKey   string         `json:"meeting_body_key,omitempty"`
	MeetingBodyName  string         `json:"meeting_body_name,omitempty"`
	FirstSeen        string         `json:"first_seen,omitempty"`
	LastSeen         string         `json:"last_seen,omitempty"`
}

// Archive is the aggregate persisted as one JSON file per meeting body.
// Notices are keyed by their stable source ID, which is the merge key.
type Archive struct {
	LastUpdated string                     `json:"last_updated"`
	Notices     map[string]CanonicalNotice `json:"notices"`
}

// Event is one meeting record from the civic-meeting-calendar API.
type Event struct {
	ID            int    `json:"id"`
	EventName     string `json:"eventName"`
	EventDate     string `json:"eventDate"`
	StartDateTime string `json:"startDateTime"`
	Location      string `json:"eventLocation,omitempty"`
}

// EventMedia describes the media attachments of one calendar event.
type EventMedia struct {
	EventID          int    `json:"eventId"`
	VideoURL         string `json:"videoUrl,omitempty"`
	AudioURL         string `json:"audioUrl,omitempty"`
	ClosedCaptionURL string `json:"closedCaptionUrl,omitempty"`
}
