package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/editor"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/transfer"
	"github.com/wadjakorntonsri/booking-bridge/pkg/metrics"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

type PlaceService struct {
	repo  ports.PlaceRepository
	cache ports.PlaceCache
	log   logrus.FieldLogger
	now   func() time.Time
}

var _ ports.PlaceService = (*PlaceService)(nil)

func NewPlaceService(repo ports.PlaceRepository, cache ports.PlaceCache, log logrus.FieldLogger) *PlaceService {
	return &PlaceService{repo: repo, cache: cache, log: log, now: time.Now}
}

func (s *PlaceService) CreatePlace(ctx context.Context, owner string, input domain.PlaceInput) (*domain.Place, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := Validate(input); err != nil {
		return nil, err
	}

	p := domain.NewPlace(owner, "")
	if err := applyInput(&p, input); err != nil {
		return nil, err
	}
	p.CarryCounters(domain.Place{})
	return s.create(ctx, p)
}

func (s *PlaceService) GetPlace(ctx context.Context, owner, id string) (*domain.Place, error) {
	return s.load(ctx, owner, id)
}

func (s *PlaceService) ListPlaces(ctx context.Context, owner string) ([]domain.Place, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	places, err := s.repo.ListPlacesByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places, nil
}

// UpdatePlace is the wholesale save of the editor form. Nil link slices and
// flags in input keep their stored values.
func (s *PlaceService) UpdatePlace(ctx context.Context, owner, id string, input domain.PlaceInput) (*domain.Place, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}
	stored, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	next := stored.Clone()
	if err := applyInput(&next, input); err != nil {
		return nil, err
	}
	return s.save(ctx, next, *stored)
}

func (s *PlaceService) DeletePlace(ctx context.Context, owner, id string) error {
	if _, err := s.load(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.DeletePlace(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Edit loads the place, applies one editor operation and saves the result.
// A failed operation leaves the stored place untouched.
func (s *PlaceService) Edit(ctx context.Context, owner, id string, op ports.EditFunc) (*domain.Place, error) {
	stored, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	next, err := op(stored.Clone())
	if err != nil {
		return nil, err
	}
	next.ID = stored.ID
	next.UserID = stored.UserID
	next.CreatedAt = stored.CreatedAt
	return s.save(ctx, next, *stored)
}

// ImportPlace creates a new place owned by owner from an import file.
func (s *PlaceService) ImportPlace(ctx context.Context, owner string, im transfer.Import) (*domain.Place, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	p := im.Apply(domain.NewPlace(owner, im.Name))
	p.CarryCounters(domain.Place{})
	return s.create(ctx, p)
}

// GetPublicPlace reads a place for visitors, through the cache when one is
// configured. Ownership is not checked and inactive places are returned as is.
func (s *PlaceService) GetPublicPlace(ctx context.Context, id string) (*domain.Place, error) {
	cached, err := s.cache.GetPlace(ctx, id)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		s.log.WithError(err).WithField("place_id", id).Warn("place cache read failed")
	case cached != nil:
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if p == nil {
		return nil, domain.ErrPlaceNotFound
	}
	if p.EnsureLinkIDs() {
		// Legacy links get their IDs persisted so tracking URLs stay stable.
		if err := s.repo.SavePlace(ctx, p); err != nil {
			s.log.WithError(err).WithField("place_id", id).Warn("persisting link ids failed")
		}
	}
	if err := s.cache.SetPlace(ctx, p); err != nil {
		s.log.WithError(err).WithField("place_id", id).Warn("place cache write failed")
	}
	return p, nil
}

func (s *PlaceService) GetPublicView(ctx context.Context, id string, now time.Time) (*domain.PublicView, error) {
	p, err := s.GetPublicPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := domain.BuildPublicView(*p, now)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *PlaceService) load(ctx context.Context, owner, id string) (*domain.Place, error) {
	if owner == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if p == nil {
		return nil, domain.ErrPlaceNotFound
	}
	if p.UserID != owner {
		return nil, domain.ErrAccessDenied
	}
	p.EnsureLinkIDs()
	return p, nil
}

func (s *PlaceService) create(ctx context.Context, p domain.Place) (*domain.Place, error) {
	p.EnsureLinkIDs()
	if err := validateLinks(p); err != nil {
		return nil, err
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.CreatePlace(ctx, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	s.log.WithFields(logrus.Fields{"place_id": p.ID, "user": p.UserID}).Info("place created")
	return &p, nil
}

func (s *PlaceService) save(ctx context.Context, next, stored domain.Place) (*domain.Place, error) {
	next.EnsureLinkIDs()
	if err := validateLinks(next); err != nil {
		return nil, err
	}
	next.CarryCounters(stored)
	next.UpdatedAt = s.now()
	if err := s.repo.SavePlace(ctx, &next); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	s.invalidate(ctx, next.ID)
	return &next, nil
}

func (s *PlaceService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.WithError(err).WithField("place_id", id).Warn("place cache invalidation failed")
	}
}

// applyInput copies the editable fields of input onto p, sanitizing text.
func applyInput(p *domain.Place, in domain.PlaceInput) error {
	p.Name = editor.Sanitize(in.Name)
	if p.Name == "" {
		return domain.ErrNameRequired
	}
	p.Description = editor.Sanitize(in.Description)
	p.Bio = editor.Sanitize(in.Bio)
	p.Location = editor.Sanitize(in.Location)
	p.LocationMapURL = in.LocationMapURL
	p.PlaceType = editor.Sanitize(in.PlaceType)
	p.CustomDomain = editor.Sanitize(in.CustomDomain)
	p.ButtonEffect = editor.Sanitize(in.ButtonEffect)
	p.BackgroundPattern = editor.Sanitize(in.BackgroundPattern)

	setIf(&p.Color, in.Color)
	setIf(&p.BackgroundColor, in.BackgroundColor)
	setIf(&p.FontColor, in.FontColor)
	setIf(&p.ButtonTextColor, in.ButtonTextColor)
	setIf(&p.LinkStyle, in.LinkStyle)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.ShowIcons != nil {
		p.ShowIcons = *in.ShowIcons
	}

	links := map[domain.LinkType][]domain.Link{
		domain.LinkTypeBooking: in.BookingLinks,
		domain.LinkTypeSocial:  in.SocialLinks,
		domain.LinkTypeSupport: in.SupportLinks,
	}
	for t, l := range links {
		if l == nil {
			continue
		}
		l = domain.CloneLinks(l)
		for i := range l {
			l[i].Platform = editor.Sanitize(l[i].Platform)
			l[i].DisplayName = editor.Sanitize(l[i].DisplayName)
		}
		p.SetLinks(t, l)
	}

	for k, v := range in.SectionLabels {
		key, err := domain.ParseSectionKey(string(k))
		if err != nil {
			return err
		}
		p.SectionLabels[key] = editor.Sanitize(v)
	}
	for k, v := range in.SectionVisibility {
		key, err := domain.ParseSectionKey(string(k))
		if err != nil {
			return err
		}
		p.SectionVisibility[key] = v
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// validateLinks enforces the addLink rules on links that arrive wholesale.
func validateLinks(p domain.Place) error {
	for _, t := range domain.LinkTypes() {
		for i, l := range p.Links(t) {
			if l.Platform == "" {
				return fmt.Errorf("%w (%s[%d])", domain.ErrEmptyPlatform, t, i)
			}
			if !domain.IsValidURL(l.URL) {
				return fmt.Errorf("%w: %s[%d] %q", domain.ErrInvalidURL, t, i, l.URL)
			}
		}
	}
	return nil
}
