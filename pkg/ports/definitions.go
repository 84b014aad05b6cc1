package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/analytics"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/transfer"
)

// PlaceRepository is the document store behind places, their analytics
// events and their subscribers.
type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *domain.Place) error     // assigns ID
	GetPlace(ctx context.Context, id string) (*domain.Place, error) // nil, nil when absent
	SavePlace(ctx context.Context, place *domain.Place) error       // whole document, last write wins
	DeletePlace(ctx context.Context, id string) error
	ListPlacesByOwner(ctx context.Context, userID string) ([]domain.Place, error) // newest first
	Dump(ctx context.Context) ([]domain.Place, error)                             // For migration

	// Analytics
	RecordEvent(ctx context.Context, event *domain.AnalyticsEvent) error
	// RecordLinkClick appends the event and increments the clicked link's
	// counter, stamping lastClicked with the store's time.
	RecordLinkClick(ctx context.Context, event *domain.AnalyticsEvent) error
	ListEvents(ctx context.Context, placeID string, since time.Time, limit int) ([]domain.AnalyticsEvent, error) // newest first; zero since means unfiltered

	// Subscribers
	AddSubscriber(ctx context.Context, sub *domain.Subscriber) error
	ListSubscribers(ctx context.Context, placeID string) ([]domain.Subscriber, error)

	Close() error
} // PlaceRepository ends here

// PlaceCache holds public snapshots of places.
type PlaceCache interface {
	GetPlace(ctx context.Context, id string) (*domain.Place, error) // nil, nil on miss
	SetPlace(ctx context.Context, place *domain.Place) error
	Invalidate(ctx context.Context, id string) error
}

// RateLimiter decides whether key may make another request in the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// EditFunc is one pure editor operation applied to a stored place.
type EditFunc func(domain.Place) (domain.Place, error)

// PlaceService defines the owner-facing place operations
type PlaceService interface {
	CreatePlace(ctx context.Context, owner string, input domain.PlaceInput) (*domain.Place, error)
	GetPlace(ctx context.Context, owner, id string) (*domain.Place, error)
	ListPlaces(ctx context.Context, owner string) ([]domain.Place, error)
	UpdatePlace(ctx context.Context, owner, id string, input domain.PlaceInput) (*domain.Place, error)
	DeletePlace(ctx context.Context, owner, id string) error
	Edit(ctx context.Context, owner, id string, op EditFunc) (*domain.Place, error)
	ImportPlace(ctx context.Context, owner string, im transfer.Import) (*domain.Place, error)

	// Public
	GetPublicPlace(ctx context.Context, id string) (*domain.Place, error)
	GetPublicView(ctx context.Context, id string, now time.Time) (*domain.PublicView, error)
}

// TrackingService records visitor interactions. Store failures are never
// returned to the visitor.
type TrackingService interface {
	TrackProfileView(ctx context.Context, placeID, userAgent, referrer string)
	ResolveLink(ctx context.Context, placeID string, t domain.LinkType, linkID string) (*domain.AnalyticsEvent, error)
	TrackLinkClick(ctx context.Context, event domain.AnalyticsEvent)
}

type AnalyticsService interface {
	Summary(ctx context.Context, owner, placeID string, days int) (*analytics.Summary, error)
}

type SubscriberService interface {
	Subscribe(ctx context.Context, placeID, email string) (*domain.Subscriber, error)
	List(ctx context.Context, owner, placeID string) ([]domain.Subscriber, error)
}
