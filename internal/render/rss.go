package render

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/alexalemi/kissimmee.fyi/internal/models"
)

// FeedInfo configures the RSS channel.
type FeedInfo struct {
	Title       string
	Link        string
	Description string
	GUIDPrefix  string // item guids are "<prefix>-<id>", never permalinks
	SiteURL     string // base for absolute thumbnail enclosure URLs
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	PubDate     string        `xml:"pubDate,omitempty"`
	GUID        rssGUID       `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// RSS renders an RSS 2.0 feed for the given notices.
func RSS(info FeedInfo, notices []models.CanonicalNotice, now time.Time) ([]byte, error) {
	doc := rssDoc{
		Version: "2.0",
		Channel: rssChannel{
			Title:         info.Title,
			Link:          info.Link,
			Description:   info.Description,
			LastBuildDate: now.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT",
		},
	}

	site := strings.TrimRight(info.SiteURL, "/")
	for _, n := range notices {
		item := rssItem{
			Title:       n.Title,
			Link:        firstNonEmpty(n.PDFURL, n.Link, info.Link),
			Description: itemDescription(n),
			PubDate:     n.PubDateRFC822,
			GUID: rssGUID{
				IsPermaLink: "false",
				Value:       info.GUIDPrefix + "-" + n.ID,
			},
		}
		if n.ThumbnailURL != "" {
			item.Enclosure = &rssEnclosure{
				URL:  site + "/" + n.ThumbnailURL,
				Type: "image/jpeg",
			}
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// itemDescription builds the structured plain-text item body: the short
// description, the extracted fields, then the full notice text.
func itemDescription(n models.CanonicalNotice) string {
	var parts []string

	if n.Description != "" {
		parts = append(parts, n.Description, "")
	}
	if n.AmendmentType != nil {
		parts = append(parts, fmt.Sprintf("Type: %s (%s)", n.AmendmentType.Name, n.AmendmentType.Code))
	}
	if n.MeetingDate != "" {
		parts = append(parts, "Meeting: "+n.MeetingDate)
	}
	if n.PropertyAddress != "" {
		parts = append(parts, "Location: "+n.PropertyAddress)
	}
	if n.ZoningChange != "" {
		parts = append(parts, "Zoning: "+n.ZoningChange)
	}
	if n.ParcelID != "" {
		parts = append(parts, "Parcel ID: "+n.ParcelID)
	}
	if n.ReferenceNum != "" {
		parts = append(parts, "Reference: "+n.ReferenceNum)
	}
	if n.NoticeText != "" {
		parts = append(parts, "", "--- Full Notice Text ---", n.NoticeText)
	}

	return strings.Join(parts, "\n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
