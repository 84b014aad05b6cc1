package domain

import "time"

type EventType string

const (
	EventProfileView EventType = "profile_view"
	EventLinkClick   EventType = "link_click"
)

// AnalyticsEvent is an append-only record of one visitor interaction.
// The link fields are only set for link_click events.
type AnalyticsEvent struct {
	ID           string     `json:"id"`
	PlaceID      string     `json:"placeId"`
	EventType    EventType  `json:"eventType"`
	LinkType     LinkType   `json:"linkType,omitempty"`
	LinkIndex    int        `json:"linkIndex"`
	LinkID       string     `json:"linkId,omitempty"`
	LinkPlatform string     `json:"linkPlatform,omitempty"`
	LinkURL      string     `json:"linkUrl,omitempty"`
	UserAgent    string     `json:"userAgent,omitempty"`
	Referrer     string     `json:"referrer,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// Subscriber is an email address collected from a public page.
type Subscriber struct {
	ID           string    `json:"id"`
	PlaceID      string    `json:"placeId"`
	Email        string    `json:"email"`
	Source       string    `json:"source"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

const SubscriberSourceProfileWidget = "profile_widget"
