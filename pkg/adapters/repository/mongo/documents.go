package mongo

import (
	"time"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

// PlaceDocument is the stored shape of a place. IDs are strings so that dumps
// move between the sqlite and mongo backends unchanged.
type PlaceDocument struct {
	ID                string            `bson:"_id"`
	UserID            string            `bson:"userId"`
	Name              string            `bson:"name"`
	Description       string            `bson:"description,omitempty"`
	Bio               string            `bson:"bio,omitempty"`
	Location          string            `bson:"location,omitempty"`
	LocationMapURL    string            `bson:"locationMapUrl,omitempty"`
	PlaceType         string            `bson:"placeType,omitempty"`
	CustomDomain      string            `bson:"customDomain,omitempty"`
	IsActive          bool              `bson:"isActive"`
	Color             string            `bson:"color"`
	BackgroundColor   string            `bson:"backgroundColor"`
	FontColor         string            `bson:"fontColor"`
	ButtonTextColor   string            `bson:"buttonTextColor"`
	LinkStyle         string            `bson:"linkStyle"`
	ButtonEffect      string            `bson:"buttonEffect,omitempty"`
	BackgroundPattern string            `bson:"backgroundPattern,omitempty"`
	ShowIcons         bool              `bson:"showIcons"`
	BookingLinks      []LinkDocument    `bson:"bookingLinks"`
	SocialLinks       []LinkDocument    `bson:"socialLinks"`
	SupportLinks      []LinkDocument    `bson:"supportLinks"`
	SectionLabels     map[string]string `bson:"sectionLabels,omitempty"`
	SectionVisibility map[string]bool   `bson:"sectionVisibility,omitempty"`
	CreatedAt         time.Time         `bson:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt"`
}

// LinkDocument is embedded in the place document's link arrays.
type LinkDocument struct {
	ID          string     `bson:"id"`
	Platform    string     `bson:"platform"`
	DisplayName string     `bson:"displayName,omitempty"`
	URL         string     `bson:"url"`
	IsActive    bool       `bson:"isActive"`
	Icon        string     `bson:"icon,omitempty"`
	ShowIcon    bool       `bson:"showIcon"`
	Clicks      int64      `bson:"clicks"`
	LastClicked *time.Time `bson:"lastClicked,omitempty"`
	StartDate   *time.Time `bson:"startDate,omitempty"`
	EndDate     *time.Time `bson:"endDate,omitempty"`
}

type EventDocument struct {
	ID           string     `bson:"_id"`
	PlaceID      string     `bson:"placeId"`
	EventType    string     `bson:"eventType"`
	LinkType     string     `bson:"linkType,omitempty"`
	LinkIndex    int        `bson:"linkIndex"`
	LinkID       string     `bson:"linkId,omitempty"`
	LinkPlatform string     `bson:"linkPlatform,omitempty"`
	LinkURL      string     `bson:"linkUrl,omitempty"`
	UserAgent    string     `bson:"userAgent,omitempty"`
	Referrer     string     `bson:"referrer,omitempty"`
	Timestamp    *time.Time `bson:"timestamp,omitempty"`
}

type SubscriberDocument struct {
	ID           string    `bson:"_id"`
	PlaceID      string    `bson:"placeId"`
	Email        string    `bson:"email"`
	Source       string    `bson:"source,omitempty"`
	SubscribedAt time.Time `bson:"subscribedAt"`
}

// linkArrayField names the array holding links of type t.
func linkArrayField(t domain.LinkType) string {
	return string(t.Section())
}

func toPlaceDocument(p domain.Place) PlaceDocument {
	doc := PlaceDocument{
		ID:                p.ID,
		UserID:            p.UserID,
		Name:              p.Name,
		Description:       p.Description,
		Bio:               p.Bio,
		Location:          p.Location,
		LocationMapURL:    p.LocationMapURL,
		PlaceType:         p.PlaceType,
		CustomDomain:      p.CustomDomain,
		IsActive:          p.IsActive,
		Color:             p.Color,
		BackgroundColor:   p.BackgroundColor,
		FontColor:         p.FontColor,
		ButtonTextColor:   p.ButtonTextColor,
		LinkStyle:         p.LinkStyle,
		ButtonEffect:      p.ButtonEffect,
		BackgroundPattern: p.BackgroundPattern,
		ShowIcons:         p.ShowIcons,
		BookingLinks:      toLinkDocuments(p.BookingLinks),
		SocialLinks:       toLinkDocuments(p.SocialLinks),
		SupportLinks:      toLinkDocuments(p.SupportLinks),
		SectionLabels:     map[string]string{},
		SectionVisibility: map[string]bool{},
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
	for k, v := range p.SectionLabels {
		doc.SectionLabels[string(k)] = v
	}
	for k, v := range p.SectionVisibility {
		doc.SectionVisibility[string(k)] = v
	}
	return doc
}

func toLinkDocuments(links []domain.Link) []LinkDocument {
	out := make([]LinkDocument, 0, len(links))
	for _, l := range links {
		out = append(out, LinkDocument{
			ID:          l.ID,
			Platform:    l.Platform,
			DisplayName: l.DisplayName,
			URL:         l.URL,
			IsActive:    l.IsActive,
			Icon:        l.Icon,
			ShowIcon:    l.ShowIcon,
			Clicks:      l.Clicks,
			LastClicked: l.LastClicked,
			StartDate:   l.StartDate,
			EndDate:     l.EndDate,
		})
	}
	return out
}

func mapPlaceDocument(doc PlaceDocument) domain.Place {
	p := domain.Place{
		ID:                doc.ID,
		UserID:            doc.UserID,
		Name:              doc.Name,
		Description:       doc.Description,
		Bio:               doc.Bio,
		Location:          doc.Location,
		LocationMapURL:    doc.LocationMapURL,
		PlaceType:         doc.PlaceType,
		CustomDomain:      doc.CustomDomain,
		IsActive:          doc.IsActive,
		Color:             doc.Color,
		BackgroundColor:   doc.BackgroundColor,
		FontColor:         doc.FontColor,
		ButtonTextColor:   doc.ButtonTextColor,
		LinkStyle:         doc.LinkStyle,
		ButtonEffect:      doc.ButtonEffect,
		BackgroundPattern: doc.BackgroundPattern,
		ShowIcons:         doc.ShowIcons,
		BookingLinks:      mapLinkDocuments(doc.BookingLinks),
		SocialLinks:       mapLinkDocuments(doc.SocialLinks),
		SupportLinks:      mapLinkDocuments(doc.SupportLinks),
		SectionLabels:     map[domain.SectionKey]string{},
		SectionVisibility: map[domain.SectionKey]bool{},
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	for k, v := range doc.SectionLabels {
		p.SectionLabels[domain.SectionKey(k)] = v
	}
	for k, v := range doc.SectionVisibility {
		p.SectionVisibility[domain.SectionKey(k)] = v
	}
	return p
}

func mapLinkDocuments(docs []LinkDocument) []domain.Link {
	out := make([]domain.Link, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Link{
			ID:          d.ID,
			Platform:    d.Platform,
			DisplayName: d.DisplayName,
			URL:         d.URL,
			IsActive:    d.IsActive,
			Icon:        d.Icon,
			ShowIcon:    d.ShowIcon,
			Clicks:      d.Clicks,
			LastClicked: d.LastClicked,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
		})
	}
	return out
}

func toEventDocument(e domain.AnalyticsEvent) EventDocument {
	return EventDocument{
		ID:           e.ID,
		PlaceID:      e.PlaceID,
		EventType:    string(e.EventType),
		LinkType:     string(e.LinkType),
		LinkIndex:    e.LinkIndex,
		LinkID:       e.LinkID,
		LinkPlatform: e.LinkPlatform,
		LinkURL:      e.LinkURL,
		UserAgent:    e.UserAgent,
		Referrer:     e.Referrer,
		Timestamp:    e.Timestamp,
	}
}

func mapEventDocument(doc EventDocument) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{
		ID:           doc.ID,
		PlaceID:      doc.PlaceID,
		EventType:    domain.EventType(doc.EventType),
		LinkType:     domain.LinkType(doc.LinkType),
		LinkIndex:    doc.LinkIndex,
		LinkID:       doc.LinkID,
		LinkPlatform: doc.LinkPlatform,
		LinkURL:      doc.LinkURL,
		UserAgent:    doc.UserAgent,
		Referrer:     doc.Referrer,
		Timestamp:    doc.Timestamp,
	}
}

func mapSubscriberDocument(doc SubscriberDocument) domain.Subscriber {
	return domain.Subscriber{
		ID:           doc.ID,
		PlaceID:      doc.PlaceID,
		Email:        doc.Email,
		Source:       doc.Source,
		SubscribedAt: doc.SubscribedAt,
	}
}
