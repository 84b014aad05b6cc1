package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/metrics"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// TrackingService writes visitor events. The Track methods detach from the
// caller's cancellation so they can run after the response has been sent.
type TrackingService struct {
	repo    ports.PlaceRepository
	places  ports.PlaceService
	log     logrus.FieldLogger
	timeout time.Duration
	now     func() time.Time
}

var _ ports.TrackingService = (*TrackingService)(nil)

func NewTrackingService(repo ports.PlaceRepository, places ports.PlaceService, timeout time.Duration, log logrus.FieldLogger) *TrackingService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TrackingService{repo: repo, places: places, log: log, timeout: timeout, now: time.Now}
}

func (s *TrackingService) TrackProfileView(ctx context.Context, placeID, userAgent, referrer string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	now := s.now()
	event := &domain.AnalyticsEvent{
		PlaceID:   placeID,
		EventType: domain.EventProfileView,
		UserAgent: userAgent,
		Referrer:  referrer,
		Timestamp: &now,
	}
	if err := s.repo.RecordEvent(ctx, event); err != nil {
		metrics.TrackingFailures.WithLabelValues(string(domain.EventProfileView)).Inc()
		s.log.WithError(err).WithField("place_id", placeID).Warn("recording profile view failed")
		return
	}
	metrics.ProfileViews.Inc()
}

// ResolveLink finds the visible link a visitor clicked and returns the click
// event to record for it.
func (s *TrackingService) ResolveLink(ctx context.Context, placeID string, t domain.LinkType, linkID string) (*domain.AnalyticsEvent, error) {
	t, err := domain.ParseLinkType(string(t))
	if err != nil {
		return nil, err
	}
	p, err := s.places.GetPublicPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrPlaceInactive
	}

	now := s.now()
	link, index, ok := p.FindLink(t, linkID)
	if !ok || !link.IsVisible(now) {
		return nil, domain.ErrLinkNotFound
	}
	return &domain.AnalyticsEvent{
		PlaceID:      placeID,
		EventType:    domain.EventLinkClick,
		LinkType:     t,
		LinkIndex:    index,
		LinkID:       link.ID,
		LinkPlatform: link.Platform,
		LinkURL:      link.URL,
		Timestamp:    &now,
	}, nil
}

// TrackLinkClick appends the click event and bumps the link counter in one
// repository call.
func (s *TrackingService) TrackLinkClick(ctx context.Context, event domain.AnalyticsEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if event.Timestamp == nil {
		now := s.now()
		event.Timestamp = &now
	}
	fields := logrus.Fields{"place_id": event.PlaceID, "link_type": event.LinkType, "link_id": event.LinkID}
	if err := s.repo.RecordLinkClick(ctx, &event); err != nil {
		metrics.TrackingFailures.WithLabelValues(string(domain.EventLinkClick)).Inc()
		s.log.WithError(err).WithFields(fields).Warn("recording link click failed")
		return
	}
	metrics.LinkClicks.WithLabelValues(string(event.LinkType)).Inc()
	s.log.WithFields(fields).Debug("link click recorded")
}
