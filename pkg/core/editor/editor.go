// Package editor holds the link collection operations of the place editor.
//
// Every operation takes a place snapshot by value and returns a new one. The
// input is never modified, and on error the returned snapshot is the zero
// Place so that a failed operation cannot be saved by accident.
package editor

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

var sanitizer = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the decoding of nested entities such as &amp;lt;.
const maxSanitizePasses = 8

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitize strips every HTML tag from user text. The result is plain text,
// so the entities the policy escapes are decoded again. Decoding can expose
// encoded markup, so the policy runs until the text stops changing.
func Sanitize(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(sanitizer.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(angleBrackets.Replace(s))
}

// AddLink appends a new active link. When templateIcon is empty the icon of a
// catalog platform with the same name is used.
func AddLink(p domain.Place, t domain.LinkType, platform, rawURL, templateIcon string) (domain.Place, error) {
	t, err := domain.ParseLinkType(string(t))
	if err != nil {
		return domain.Place{}, err
	}
	platform = Sanitize(platform)
	if platform == "" {
		return domain.Place{}, domain.ErrEmptyPlatform
	}
	rawURL = strings.TrimSpace(rawURL)
	if !domain.IsValidURL(rawURL) {
		return domain.Place{}, fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}

	icon := templateIcon
	if icon == "" {
		if tpl, ok := domain.FindPlatform(t, platform); ok {
			icon = tpl.Icon
		}
	}

	out := p.Clone()
	out.SetLinks(t, append(out.Links(t), domain.Link{
		ID:          uuid.NewString(),
		Platform:    platform,
		DisplayName: platform,
		URL:         rawURL,
		IsActive:    true,
		Icon:        icon,
		ShowIcon:    p.ShowIcons,
	}))
	return out, nil
}

// ToggleLinkActive flips isActive of the link at index.
func ToggleLinkActive(p domain.Place, t domain.LinkType, index int) (domain.Place, error) {
	return updateLink(p, t, index, func(l *domain.Link) {
		l.IsActive = !l.IsActive
	})
}

// ToggleLinkIconVisibility flips showIcon of the link at index. The editor
// never offers it for social links, but the operation itself does not refuse.
func ToggleLinkIconVisibility(p domain.Place, t domain.LinkType, index int) (domain.Place, error) {
	return updateLink(p, t, index, func(l *domain.Link) {
		l.ShowIcon = !l.ShowIcon
	})
}

// UpdateLinkDisplayName stores name as is. An empty name falls back to the
// platform at render time.
func UpdateLinkDisplayName(p domain.Place, t domain.LinkType, index int, name string) (domain.Place, error) {
	name = Sanitize(name)
	return updateLink(p, t, index, func(l *domain.Link) {
		l.DisplayName = name
	})
}

// RemoveLink deletes the link at index. Later links shift down by one.
func RemoveLink(p domain.Place, t domain.LinkType, index int) (domain.Place, error) {
	t, err := checkIndex(p, t, index)
	if err != nil {
		return domain.Place{}, err
	}
	out := p.Clone()
	links := out.Links(t)
	out.SetLinks(t, append(links[:index:index], links[index+1:]...))
	return out, nil
}

// ToggleGlobalIconVisibility flips showIcons and cascades it to booking and
// support links. Social links always keep their icon.
func ToggleGlobalIconVisibility(p domain.Place) domain.Place {
	out := p.Clone()
	out.ShowIcons = !p.ShowIcons
	for i := range out.BookingLinks {
		out.BookingLinks[i].ShowIcon = out.ShowIcons
	}
	for i := range out.SupportLinks {
		out.SupportLinks[i].ShowIcon = out.ShowIcons
	}
	for i := range out.SocialLinks {
		out.SocialLinks[i].ShowIcon = true
	}
	return out
}

func UpdateSectionLabel(p domain.Place, key domain.SectionKey, text string) (domain.Place, error) {
	key, err := domain.ParseSectionKey(string(key))
	if err != nil {
		return domain.Place{}, err
	}
	out := p.Clone()
	out.SectionLabels[key] = Sanitize(text)
	return out, nil
}

// ToggleSectionVisibility flips label visibility. A missing key counts as visible.
func ToggleSectionVisibility(p domain.Place, key domain.SectionKey) (domain.Place, error) {
	key, err := domain.ParseSectionKey(string(key))
	if err != nil {
		return domain.Place{}, err
	}
	out := p.Clone()
	out.SectionVisibility[key] = !p.IsSectionLabelVisible(key)
	return out, nil
}

// ApplyTheme copies a preset's colors and link style over the place.
func ApplyTheme(p domain.Place, themeID string) (domain.Place, error) {
	theme, ok := domain.FindTheme(themeID)
	if !ok {
		return domain.Place{}, fmt.Errorf("%w: %q", domain.ErrThemeNotFound, themeID)
	}
	out := p.Clone()
	out.Color = theme.Settings.Color
	out.BackgroundColor = theme.Settings.BackgroundColor
	out.FontColor = theme.Settings.FontColor
	out.ButtonTextColor = theme.Settings.ButtonTextColor
	out.LinkStyle = theme.Settings.LinkStyle
	return out, nil
}

// IndexOf resolves a link ID to its current position.
func IndexOf(p domain.Place, t domain.LinkType, id string) (int, error) {
	t, err := domain.ParseLinkType(string(t))
	if err != nil {
		return -1, err
	}
	if _, i, ok := p.FindLink(t, id); ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s %q", domain.ErrLinkNotFound, t, id)
}

func checkIndex(p domain.Place, t domain.LinkType, index int) (domain.LinkType, error) {
	t, err := domain.ParseLinkType(string(t))
	if err != nil {
		return "", err
	}
	if n := len(p.Links(t)); index < 0 || index >= n {
		return "", fmt.Errorf("%w: %s[%d] of %d", domain.ErrLinkIndexOutOfRange, t, index, n)
	}
	return t, nil
}

func updateLink(p domain.Place, t domain.LinkType, index int, fn func(*domain.Link)) (domain.Place, error) {
	t, err := checkIndex(p, t, index)
	if err != nil {
		return domain.Place{}, err
	}
	out := p.Clone()
	fn(&out.Links(t)[index])
	return out, nil
}
