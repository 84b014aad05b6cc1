package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectionKey addresses a link section in sectionLabels and sectionVisibility.
type SectionKey string

const (
	SectionBooking SectionKey = "bookingLinks"
	SectionSocial  SectionKey = "socialLinks"
	SectionSupport SectionKey = "supportLinks"
)

func ParseSectionKey(s string) (SectionKey, error) {
	switch k := SectionKey(s); k {
	case SectionBooking, SectionSocial, SectionSupport:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Link styles accepted for Place.LinkStyle.
const (
	LinkStyleRounded = "rounded"
	LinkStylePill    = "pill"
	LinkStyleSquare  = "square"
	LinkStyleOutline = "outline"
)

// IsLinkStyle reports whether s is one of the supported link styles.
func IsLinkStyle(s string) bool {
	switch s {
	case LinkStyleRounded, LinkStylePill, LinkStyleSquare, LinkStyleOutline:
		return true
	}
	return false
}

const (
	DefaultColor           = "#3B82F6"
	DefaultBackgroundColor = "#FFFFFF"
	DefaultFontColor       = "#000000"
	DefaultButtonTextColor = "#FFFFFF"
)

// Place is the aggregate root: one public profile with its links and settings.
type Place struct {
	ID                string                `json:"id"`
	UserID            string                `json:"userId"`
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Bio               string                `json:"bio"`
	Location          string                `json:"location"`
	LocationMapURL    string                `json:"locationMapUrl"`
	PlaceType         string                `json:"placeType"`
	CustomDomain      string                `json:"customDomain"`
	IsActive          bool                  `json:"isActive"`
	Color             string                `json:"color"`
	BackgroundColor   string                `json:"backgroundColor"`
	FontColor         string                `json:"fontColor"`
	ButtonTextColor   string                `json:"buttonTextColor"`
	LinkStyle         string                `json:"linkStyle"`
	ButtonEffect      string                `json:"buttonEffect"`
	BackgroundPattern string                `json:"backgroundPattern"`
	ShowIcons         bool                  `json:"showIcons"`
	BookingLinks      []Link                `json:"bookingLinks"`
	SocialLinks       []Link                `json:"socialLinks"`
	SupportLinks      []Link                `json:"supportLinks"`
	SectionLabels     map[SectionKey]string `json:"sectionLabels"`
	SectionVisibility map[SectionKey]bool   `json:"sectionVisibility"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// DefaultSectionLabels are the labels a new place starts with.
func DefaultSectionLabels() map[SectionKey]string {
	return map[SectionKey]string{
		SectionBooking: "Book this property on:",
		SectionSupport: "Experiences & Support:",
		SectionSocial:  "Follow on social media:",
	}
}

// NewPlace returns a place with the editor defaults applied.
func NewPlace(userID, name string) Place {
	return Place{
		UserID:          userID,
		Name:            name,
		IsActive:        true,
		Color:           DefaultColor,
		BackgroundColor: DefaultBackgroundColor,
		FontColor:       DefaultFontColor,
		ButtonTextColor: DefaultButtonTextColor,
		LinkStyle:       LinkStyleRounded,
		ShowIcons:       true,
		BookingLinks:    []Link{},
		SocialLinks:     []Link{},
		SupportLinks:    []Link{},
		SectionLabels:   DefaultSectionLabels(),
		SectionVisibility: map[SectionKey]bool{
			SectionBooking: true,
			SectionSupport: true,
			SectionSocial:  true,
		},
	}
}

// Links returns the collection for t. The slice is shared with p.
func (p *Place) Links(t LinkType) []Link {
	switch t {
	case LinkTypeSocial:
		return p.SocialLinks
	case LinkTypeSupport:
		return p.SupportLinks
	default:
		return p.BookingLinks
	}
}

// SetLinks replaces the collection for t.
func (p *Place) SetLinks(t LinkType, links []Link) {
	if links == nil {
		links = []Link{}
	}
	switch t {
	case LinkTypeSocial:
		p.SocialLinks = links
	case LinkTypeSupport:
		p.SupportLinks = links
	default:
		p.BookingLinks = links
	}
}

// Clone returns a deep copy so that callers can transform it without aliasing p.
func (p Place) Clone() Place {
	c := p
	c.BookingLinks = CloneLinks(p.BookingLinks)
	c.SocialLinks = CloneLinks(p.SocialLinks)
	c.SupportLinks = CloneLinks(p.SupportLinks)
	c.SectionLabels = make(map[SectionKey]string, len(p.SectionLabels))
	for k, v := range p.SectionLabels {
		c.SectionLabels[k] = v
	}
	c.SectionVisibility = make(map[SectionKey]bool, len(p.SectionVisibility))
	for k, v := range p.SectionVisibility {
		c.SectionVisibility[k] = v
	}
	return c
}

// CloneLinks deep-copies a link slice.
func CloneLinks(links []Link) []Link {
	out := make([]Link, len(links))
	for i, l := range links {
		out[i] = l.clone()
	}
	return out
}

// EnsureLinkIDs assigns an ID to every link that lacks one. Legacy documents
// written before links carried IDs get them on first load.
func (p *Place) EnsureLinkIDs() bool {
	changed := false
	for _, t := range LinkTypes() {
		links := p.Links(t)
		for i := range links {
			if links[i].ID == "" {
				links[i].ID = uuid.NewString()
				changed = true
			}
		}
	}
	return changed
}

// FindLink looks a link up by ID and returns its position.
func (p *Place) FindLink(t LinkType, id string) (Link, int, bool) {
	for i, l := range p.Links(t) {
		if l.ID == id {
			return l, i, true
		}
	}
	return Link{}, -1, false
}

// CarryCounters copies clicks and lastClicked from stored onto p for every link
// that survives under the same ID. Editor writes never touch the counters.
func (p *Place) CarryCounters(stored Place) {
	for _, t := range LinkTypes() {
		byID := make(map[string]Link, len(stored.Links(t)))
		for _, l := range stored.Links(t) {
			if l.ID != "" {
				byID[l.ID] = l
			}
		}
		links := p.Links(t)
		for i := range links {
			old, ok := byID[links[i].ID]
			if !ok {
				links[i].Clicks = 0
				links[i].LastClicked = nil
				continue
			}
			links[i].Clicks = old.Clicks
			links[i].LastClicked = cloneTime(old.LastClicked)
		}
	}
}

// IsSectionLabelVisible treats a missing key as visible.
func (p *Place) IsSectionLabelVisible(key SectionKey) bool {
	v, ok := p.SectionVisibility[key]
	return !ok || v
}

var sectionLabelDefaults = map[SectionKey]map[string]string{
	SectionBooking: {
		"accommodation": "Book this property on:",
		"restaurant":    "Make a reservation on:",
		"retail":        "Shop this store on:",
		"service":       "Book this service on:",
		"event":         "Get tickets on:",
		"default":       "Available on:",
	},
	SectionSupport: {
		"accommodation": "Experiences & Support:",
		"restaurant":    "Additional Services:",
		"retail":        "Customer Services:",
		"service":       "Support Services:",
		"event":         "Event Services:",
		"default":       "Support Links:",
	},
	SectionSocial: {
		"default": "Social Media",
	},
}

// SectionLabel returns the stored label for key, else the default for the
// place type, else the generic default.
func (p *Place) SectionLabel(key SectionKey) string {
	if l := strings.TrimSpace(p.SectionLabels[key]); l != "" {
		return p.SectionLabels[key]
	}
	defaults := sectionLabelDefaults[key]
	if l, ok := defaults[strings.ToLower(p.PlaceType)]; ok {
		return l
	}
	return defaults["default"]
}
