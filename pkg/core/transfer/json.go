// Package transfer converts places to and from the portable JSON, CSV and
// XLSX files owners download and upload.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/editor"
)

const ExportVersion = "1.0"

// Document is the JSON export. It carries only what the owner can edit:
// no owner, no server timestamps, no counters.
type Document struct {
	Name              string                       `json:"name"`
	Description       string                       `json:"description"`
	Bio               string                       `json:"bio"`
	Location          string                       `json:"location"`
	LocationMapURL    string                       `json:"locationMapUrl"`
	PlaceType         string                       `json:"placeType,omitempty"`
	CustomDomain      string                       `json:"customDomain,omitempty"`
	Color             string                       `json:"color"`
	BackgroundColor   string                       `json:"backgroundColor"`
	FontColor         string                       `json:"fontColor"`
	ButtonTextColor   string                       `json:"buttonTextColor"`
	LinkStyle         string                       `json:"linkStyle"`
	ButtonEffect      string                       `json:"buttonEffect,omitempty"`
	BackgroundPattern string                       `json:"backgroundPattern,omitempty"`
	BookingLinks      []DocumentLink               `json:"bookingLinks"`
	SocialLinks       []DocumentLink               `json:"socialLinks"`
	SupportLinks      []DocumentLink               `json:"supportLinks"`
	ShowIcons         bool                         `json:"showIcons"`
	SectionLabels     map[domain.SectionKey]string `json:"sectionLabels"`
	SectionVisibility map[domain.SectionKey]bool   `json:"sectionVisibility"`
	IsActive          bool                         `json:"isActive"`
	ExportedAt        time.Time                    `json:"exportedAt"`
	ExportVersion     string                       `json:"exportVersion"`
}

type DocumentLink struct {
	Platform    string     `json:"platform"`
	DisplayName string     `json:"displayName"`
	URL         string     `json:"url"`
	IsActive    bool       `json:"isActive"`
	Icon        string     `json:"icon"`
	ShowIcon    bool       `json:"showIcon"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// NewDocument builds the export document of p.
func NewDocument(p domain.Place, now time.Time) Document {
	labels := p.SectionLabels
	if labels == nil {
		labels = map[domain.SectionKey]string{}
	}
	visibility := p.SectionVisibility
	if visibility == nil {
		visibility = map[domain.SectionKey]bool{}
	}
	return Document{
		Name:              p.Name,
		Description:       p.Description,
		Bio:               p.Bio,
		Location:          p.Location,
		LocationMapURL:    p.LocationMapURL,
		PlaceType:         p.PlaceType,
		CustomDomain:      p.CustomDomain,
		Color:             p.Color,
		BackgroundColor:   p.BackgroundColor,
		FontColor:         p.FontColor,
		ButtonTextColor:   p.ButtonTextColor,
		LinkStyle:         p.LinkStyle,
		ButtonEffect:      p.ButtonEffect,
		BackgroundPattern: p.BackgroundPattern,
		BookingLinks:      documentLinks(p.BookingLinks),
		SocialLinks:       documentLinks(p.SocialLinks),
		SupportLinks:      documentLinks(p.SupportLinks),
		ShowIcons:         p.ShowIcons,
		SectionLabels:     labels,
		SectionVisibility: visibility,
		IsActive:          p.IsActive,
		ExportedAt:        now.UTC(),
		ExportVersion:     ExportVersion,
	}
}

func documentLinks(links []domain.Link) []DocumentLink {
	out := make([]DocumentLink, 0, len(links))
	for _, l := range links {
		out = append(out, DocumentLink{
			Platform:    l.Platform,
			DisplayName: l.DisplayName,
			URL:         l.URL,
			IsActive:    l.IsActive,
			Icon:        l.Icon,
			ShowIcon:    l.ShowIcon,
			StartDate:   l.StartDate,
			EndDate:     l.EndDate,
		})
	}
	return out
}

// ExportJSON writes the indented export document of p to w.
func ExportJSON(w io.Writer, p domain.Place, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(p, now))
}

// LinkSet holds the three link collections of an import.
type LinkSet struct {
	Booking []domain.Link
	Social  []domain.Link
	Support []domain.Link
}

func (s LinkSet) Len() int {
	return len(s.Booking) + len(s.Social) + len(s.Support)
}

func (s *LinkSet) add(t domain.LinkType, l domain.Link) {
	switch t {
	case domain.LinkTypeSocial:
		s.Social = append(s.Social, l)
	case domain.LinkTypeSupport:
		s.Support = append(s.Support, l)
	default:
		s.Booking = append(s.Booking, l)
	}
}

// AppendTo returns a copy of p with the set's links appended to its collections.
func (s LinkSet) AppendTo(p domain.Place) domain.Place {
	out := p.Clone()
	out.BookingLinks = append(out.BookingLinks, domain.CloneLinks(s.Booking)...)
	out.SocialLinks = append(out.SocialLinks, domain.CloneLinks(s.Social)...)
	out.SupportLinks = append(out.SupportLinks, domain.CloneLinks(s.Support)...)
	return out
}

// Import is a validated and sanitized upload, ready to be applied to a place.
type Import struct {
	Name              string
	Description       string
	Bio               string
	Location          string
	LocationMapURL    string
	PlaceType         string
	CustomDomain      string
	Color             string
	BackgroundColor   string
	FontColor         string
	ButtonTextColor   string
	LinkStyle         string
	ButtonEffect      string
	BackgroundPattern string
	ShowIcons         bool
	IsActive          bool
	SectionLabels     map[domain.SectionKey]string
	SectionVisibility map[domain.SectionKey]bool
	Links             LinkSet
	Warnings          []string
}

// Apply replaces the editable fields and links of p with the import.
// Identity, owner and timestamps of p are kept.
func (im Import) Apply(p domain.Place) domain.Place {
	out := p.Clone()
	out.Name = im.Name
	out.Description = im.Description
	out.Bio = im.Bio
	out.Location = im.Location
	out.LocationMapURL = im.LocationMapURL
	out.PlaceType = im.PlaceType
	out.CustomDomain = im.CustomDomain
	out.Color = im.Color
	out.BackgroundColor = im.BackgroundColor
	out.FontColor = im.FontColor
	out.ButtonTextColor = im.ButtonTextColor
	out.LinkStyle = im.LinkStyle
	out.ButtonEffect = im.ButtonEffect
	out.BackgroundPattern = im.BackgroundPattern
	out.ShowIcons = im.ShowIcons
	out.IsActive = im.IsActive

	out.SectionLabels = domain.DefaultSectionLabels()
	for k, v := range im.SectionLabels {
		out.SectionLabels[k] = v
	}
	out.SectionVisibility = map[domain.SectionKey]bool{}
	for k, v := range im.SectionVisibility {
		out.SectionVisibility[k] = v
	}

	out.SetLinks(domain.LinkTypeBooking, domain.CloneLinks(im.Links.Booking))
	out.SetLinks(domain.LinkTypeSocial, domain.CloneLinks(im.Links.Social))
	out.SetLinks(domain.LinkTypeSupport, domain.CloneLinks(im.Links.Support))
	return out
}

type rawDocument struct {
	Name              *string                      `json:"name"`
	Description       string                       `json:"description"`
	Bio               string                       `json:"bio"`
	Location          string                       `json:"location"`
	LocationMapURL    string                       `json:"locationMapUrl"`
	PlaceType         string                       `json:"placeType"`
	CustomDomain      string                       `json:"customDomain"`
	Color             string                       `json:"color"`
	BackgroundColor   string                       `json:"backgroundColor"`
	FontColor         string                       `json:"fontColor"`
	ButtonTextColor   string                       `json:"buttonTextColor"`
	LinkStyle         string                       `json:"linkStyle"`
	ButtonEffect      string                       `json:"buttonEffect"`
	BackgroundPattern string                       `json:"backgroundPattern"`
	BookingLinks      []rawLink                    `json:"bookingLinks"`
	SocialLinks       []rawLink                    `json:"socialLinks"`
	SupportLinks      []rawLink                    `json:"supportLinks"`
	ShowIcons         *bool                        `json:"showIcons"`
	SectionLabels     map[domain.SectionKey]string `json:"sectionLabels"`
	SectionVisibility map[domain.SectionKey]bool   `json:"sectionVisibility"`
	IsActive          *bool                        `json:"isActive"`
}

type rawLink struct {
	Platform    string  `json:"platform"`
	DisplayName string  `json:"displayName"`
	URL         string  `json:"url"`
	IsActive    *bool   `json:"isActive"`
	Icon        string  `json:"icon"`
	ShowIcon    *bool   `json:"showIcon"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

var hexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}){1,2}$`)

// ImportJSON parses and sanitizes a JSON export. A missing name is an error;
// links without a platform or a valid http(s) URL are dropped.
func ImportJSON(r io.Reader) (Import, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Import{}, fmt.Errorf("%w: empty file", domain.ErrImportMalformed)
		}
		return Import{}, fmt.Errorf("%w: %v", domain.ErrImportMalformed, err)
	}
	if raw.Name == nil || editor.Sanitize(*raw.Name) == "" {
		return Import{}, domain.ErrImportNameRequired
	}

	im := Import{
		Name:              editor.Sanitize(*raw.Name),
		Description:       editor.Sanitize(raw.Description),
		Bio:               editor.Sanitize(raw.Bio),
		Location:          editor.Sanitize(raw.Location),
		PlaceType:         editor.Sanitize(raw.PlaceType),
		CustomDomain:      editor.Sanitize(raw.CustomDomain),
		Color:             colorOr(raw.Color, domain.DefaultColor),
		BackgroundColor:   colorOr(raw.BackgroundColor, domain.DefaultBackgroundColor),
		FontColor:         colorOr(raw.FontColor, domain.DefaultFontColor),
		ButtonTextColor:   colorOr(raw.ButtonTextColor, domain.DefaultButtonTextColor),
		LinkStyle:         domain.LinkStyleRounded,
		ButtonEffect:      editor.Sanitize(raw.ButtonEffect),
		BackgroundPattern: editor.Sanitize(raw.BackgroundPattern),
		ShowIcons:         raw.ShowIcons == nil || *raw.ShowIcons,
		IsActive:          raw.IsActive == nil || *raw.IsActive,
		SectionLabels:     map[domain.SectionKey]string{},
		SectionVisibility: map[domain.SectionKey]bool{},
	}
	if domain.IsValidURL(raw.LocationMapURL) {
		im.LocationMapURL = strings.TrimSpace(raw.LocationMapURL)
	}
	if domain.IsLinkStyle(raw.LinkStyle) {
		im.LinkStyle = raw.LinkStyle
	}
	for k, v := range raw.SectionLabels {
		if key, err := domain.ParseSectionKey(string(k)); err == nil {
			im.SectionLabels[key] = editor.Sanitize(v)
		}
	}
	for k, v := range raw.SectionVisibility {
		if key, err := domain.ParseSectionKey(string(k)); err == nil {
			im.SectionVisibility[key] = v
		}
	}

	for _, group := range []struct {
		t     domain.LinkType
		links []rawLink
	}{
		{domain.LinkTypeBooking, raw.BookingLinks},
		{domain.LinkTypeSocial, raw.SocialLinks},
		{domain.LinkTypeSupport, raw.SupportLinks},
	} {
		for i, rl := range group.links {
			l, ok := rl.link()
			if !ok {
				continue
			}
			var warn []string
			l.StartDate, warn = parseDate(rl.StartDate, fmt.Sprintf("%s link %d start date", group.t, i+1), warn)
			l.EndDate, warn = parseDate(rl.EndDate, fmt.Sprintf("%s link %d end date", group.t, i+1), warn)
			im.Warnings = append(im.Warnings, warn...)
			im.Links.add(group.t, l)
		}
	}
	return im, nil
}

func (rl rawLink) link() (domain.Link, bool) {
	platform := editor.Sanitize(rl.Platform)
	rawURL := strings.TrimSpace(rl.URL)
	if platform == "" || !domain.IsValidURL(rawURL) {
		return domain.Link{}, false
	}
	display := editor.Sanitize(rl.DisplayName)
	if display == "" {
		display = platform
	}
	return domain.Link{
		ID:          uuid.NewString(),
		Platform:    platform,
		DisplayName: display,
		URL:         rawURL,
		IsActive:    rl.IsActive == nil || *rl.IsActive,
		Icon:        strings.TrimSpace(rl.Icon),
		ShowIcon:    rl.ShowIcon == nil || *rl.ShowIcon,
	}, true
}

func colorOr(c, fallback string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return fallback
	}
	if !hexColor.MatchString(c) {
		return fallback
	}
	return c
}

func parseDate(s *string, what string, warnings []string) (*time.Time, []string) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, warnings
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("ignoring %s %q: not a date", what, *s))
	}
	return &t, warnings
}

// ParseDate accepts YYYY-MM-DD, read as midnight UTC, or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FormatDate is the inverse of ParseDate: midnight UTC is written as a bare date.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format(time.DateOnly)
	}
	return u.Format(time.RFC3339)
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename names a download, e.g. Cafe-X-export-1700000000000.json.
func Filename(placeName, suffix, ext string, now time.Time) string {
	name := strings.TrimSpace(placeName)
	if name == "" {
		name = "place"
	}
	return fmt.Sprintf("%s-%s-%d.%s", whitespace.ReplaceAllString(name, "-"), suffix, now.UnixMilli(), ext)
}
