package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

var errBoom = errors.New("boom")

type memRepo struct {
	mu          sync.Mutex
	places      map[string]domain.Place
	events      []domain.AnalyticsEvent
	subscribers []domain.Subscriber
	seq         int

	eventsErr error
	writeErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{places: map[string]domain.Place{}}
}

func (r *memRepo) CreatePlace(ctx context.Context, p *domain.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.seq++
	p.ID = "place-" + strconv.Itoa(r.seq)
	r.places[p.ID] = p.Clone()
	return nil
}

func (r *memRepo) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.places[id]
	if !ok {
		return nil, nil
	}
	c := p.Clone()
	return &c, nil
}

func (r *memRepo) SavePlace(ctx context.Context, p *domain.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.places[p.ID] = p.Clone()
	return nil
}

func (r *memRepo) DeletePlace(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.places, id)
	return nil
}

func (r *memRepo) ListPlacesByOwner(ctx context.Context, userID string) ([]domain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Place
	for _, p := range r.places {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Dump(ctx context.Context) ([]domain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Place, 0, len(r.places))
	for _, p := range r.places {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (r *memRepo) RecordEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.events = append([]domain.AnalyticsEvent{*e}, r.events...)
	return nil
}

func (r *memRepo) RecordLinkClick(ctx context.Context, e *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.events = append([]domain.AnalyticsEvent{*e}, r.events...)
	p := r.places[e.PlaceID]
	links := p.Links(e.LinkType)
	for i := range links {
		if links[i].ID == e.LinkID {
			links[i].Clicks++
			at := *e.Timestamp
			links[i].LastClicked = &at
		}
	}
	r.places[e.PlaceID] = p
	return nil
}

func (r *memRepo) ListEvents(ctx context.Context, placeID string, since time.Time, limit int) ([]domain.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.eventsErr != nil {
		return nil, r.eventsErr
	}
	var out []domain.AnalyticsEvent
	for _, e := range r.events {
		if e.PlaceID != placeID {
			continue
		}
		if since.IsZero() || (e.Timestamp != nil && !e.Timestamp.Before(since)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) AddSubscriber(ctx context.Context, s *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subscribers {
		if existing.PlaceID == s.PlaceID && existing.Email == s.Email {
			*s = existing
			return nil
		}
	}
	r.seq++
	s.ID = "sub-" + strconv.Itoa(r.seq)
	r.subscribers = append(r.subscribers, *s)
	return nil
}

func (r *memRepo) ListSubscribers(ctx context.Context, placeID string) ([]domain.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Subscriber
	for _, s := range r.subscribers {
		if s.PlaceID == placeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) Close() error { return nil }

type memCache struct {
	places      map[string]domain.Place
	invalidated []string
	getErr      error
}

func newMemCache() *memCache {
	return &memCache{places: map[string]domain.Place{}}
}

func (c *memCache) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.places[id]
	if !ok {
		return nil, nil
	}
	cp := p.Clone()
	return &cp, nil
}

func (c *memCache) SetPlace(ctx context.Context, p *domain.Place) error {
	c.places[p.ID] = p.Clone()
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, id string) error {
	delete(c.places, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}
