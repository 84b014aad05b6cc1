package domain

import (
	"net/url"
	"time"
)

// PublicView is what a visitor of /p/{placeId} receives.
type PublicView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Bio            string          `json:"bio"`
	Location       string          `json:"location"`
	LocationMapURL string          `json:"locationMapUrl,omitempty"`
	CustomDomain   string          `json:"customDomain,omitempty"`
	Theme          PublicTheme     `json:"theme"`
	Sections       []PublicSection `json:"sections"`
}

type PublicTheme struct {
	Color             string `json:"color"`
	BackgroundColor   string `json:"backgroundColor"`
	FontColor         string `json:"fontColor"`
	ButtonTextColor   string `json:"buttonTextColor"`
	LinkStyle         string `json:"linkStyle"`
	ButtonEffect      string `json:"buttonEffect,omitempty"`
	BackgroundPattern string `json:"backgroundPattern,omitempty"`
}

// PublicSection is one block of links. Rendered is false when none of its
// links is visible; the label is gated separately by ShowLabel.
type PublicSection struct {
	Key       SectionKey   `json:"key"`
	Type      LinkType     `json:"type"`
	Label     string       `json:"label"`
	ShowLabel bool         `json:"showLabel"`
	Rendered  bool         `json:"rendered"`
	Links     []PublicLink `json:"links"`
}

type PublicLink struct {
	ID          string `json:"id"`
	Platform    string `json:"platform"`
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
	Icon        string `json:"icon,omitempty"`
	ShowIcon    bool   `json:"showIcon"`
	TrackURL    string `json:"trackUrl"`
}

// BuildPublicView filters p through the visibility predicate at now.
// An inactive place yields ErrPlaceInactive before any link is looked at.
func BuildPublicView(p Place, now time.Time) (PublicView, error) {
	if !p.IsActive {
		return PublicView{}, ErrPlaceInactive
	}

	buttonText := p.ButtonTextColor
	if buttonText == "" {
		buttonText = ContrastTextColor(p.Color)
	}

	view := PublicView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Bio:            p.Bio,
		Location:       p.Location,
		LocationMapURL: p.LocationMapURL,
		CustomDomain:   p.CustomDomain,
		Theme: PublicTheme{
			Color:             p.Color,
			BackgroundColor:   p.BackgroundColor,
			FontColor:         p.FontColor,
			ButtonTextColor:   buttonText,
			LinkStyle:         p.LinkStyle,
			ButtonEffect:      p.ButtonEffect,
			BackgroundPattern: p.BackgroundPattern,
		},
		Sections: make([]PublicSection, 0, 3),
	}

	for _, t := range LinkTypes() {
		key := t.Section()
		section := PublicSection{
			Key:       key,
			Type:      t,
			Label:     p.SectionLabel(key),
			ShowLabel: p.IsSectionLabelVisible(key),
			Links:     []PublicLink{},
		}
		for _, l := range p.Links(t) {
			if !l.IsVisible(now) {
				continue
			}
			showIcon := l.ShowIcon
			if t == LinkTypeSocial {
				showIcon = true
			}
			section.Links = append(section.Links, PublicLink{
				ID:          l.ID,
				Platform:    l.Platform,
				DisplayName: l.Label(),
				URL:         l.URL,
				Icon:        l.Icon,
				ShowIcon:    showIcon,
				TrackURL:    TrackPath(p.ID, t, l.ID),
			})
		}
		section.Rendered = len(section.Links) > 0
		view.Sections = append(view.Sections, section)
	}
	return view, nil
}

// TrackPath is the redirecting click-tracking path for a link.
func TrackPath(placeID string, t LinkType, linkID string) string {
	return "/p/" + url.PathEscape(placeID) + "/go/" + string(t) + "/" + url.PathEscape(linkID)
}
