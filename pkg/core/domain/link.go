package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LinkType names one of the three link collections of a place.
type LinkType string

const (
	LinkTypeBooking LinkType = "booking"
	LinkTypeSocial  LinkType = "social"
	LinkTypeSupport LinkType = "support"
)

// LinkTypes lists the link types in public display order.
func LinkTypes() []LinkType {
	return []LinkType{LinkTypeBooking, LinkTypeSupport, LinkTypeSocial}
}

// ParseLinkType accepts a link type case-insensitively.
func ParseLinkType(s string) (LinkType, error) {
	t := LinkType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case LinkTypeBooking, LinkTypeSocial, LinkTypeSupport:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLinkType, s)
}

// Section returns the key of the section that renders links of this type.
func (t LinkType) Section() SectionKey {
	switch t {
	case LinkTypeSocial:
		return SectionSocial
	case LinkTypeSupport:
		return SectionSupport
	default:
		return SectionBooking
	}
}

// Link is one entry of a place's booking, social or support links.
// Clicks and LastClicked are written by click tracking only.
type Link struct {
	ID          string     `json:"id"`
	Platform    string     `json:"platform"`
	DisplayName string     `json:"displayName"`
	URL         string     `json:"url"`
	IsActive    bool       `json:"isActive"`
	Icon        string     `json:"icon"`
	ShowIcon    bool       `json:"showIcon"`
	Clicks      int64      `json:"clicks"`
	LastClicked *time.Time `json:"lastClicked,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// Label is the text shown to visitors.
func (l Link) Label() string {
	if l.DisplayName != "" {
		return l.DisplayName
	}
	return l.Platform
}

// IsWithinSchedule reports whether now falls inside the optional schedule window.
// Both bounds are inclusive. A link with start after end is never within schedule.
func (l Link) IsWithinSchedule(now time.Time) bool {
	if l.StartDate != nil && now.Before(*l.StartDate) {
		return false
	}
	if l.EndDate != nil && now.After(*l.EndDate) {
		return false
	}
	return true
}

// IsVisible reports whether the link is shown on the public page at now.
// The active flag dominates the schedule.
func (l Link) IsVisible(now time.Time) bool {
	return l.IsActive && l.IsWithinSchedule(now)
}

func (l Link) clone() Link {
	c := l
	c.LastClicked = cloneTime(l.LastClicked)
	c.StartDate = cloneTime(l.StartDate)
	c.EndDate = cloneTime(l.EndDate)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// IsValidURL reports whether raw is an absolute http or https URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
