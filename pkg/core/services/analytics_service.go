package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/analytics"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

const (
	maxSummaryDays = 365
	// maxSummaryEvents caps one summary query.
	maxSummaryEvents = 50000
)

type AnalyticsService struct {
	repo        ports.PlaceRepository
	places      ports.PlaceService
	loc         *time.Location
	defaultDays int
	log         logrus.FieldLogger
	now         func() time.Time
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

func NewAnalyticsService(repo ports.PlaceRepository, places ports.PlaceService, loc *time.Location, defaultDays int, log logrus.FieldLogger) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &AnalyticsService{repo: repo, places: places, loc: loc, defaultDays: defaultDays, log: log, now: time.Now}
}

// Summary aggregates the last days of events of an owned place. A failed event
// query yields the empty summary instead of an error.
func (s *AnalyticsService) Summary(ctx context.Context, owner, placeID string, days int) (*analytics.Summary, error) {
	if _, err := s.places.GetPlace(ctx, owner, placeID); err != nil {
		return nil, err
	}

	days = s.clampDays(days)
	since := s.now().AddDate(0, 0, -days)
	events, err := s.repo.ListEvents(ctx, placeID, since, maxSummaryEvents)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"place_id": placeID, "days": days}).Error("loading analytics events failed")
		empty := analytics.EmptySummary()
		return &empty, nil
	}

	summary := analytics.Summarize(events, s.loc)
	return &summary, nil
}

func (s *AnalyticsService) clampDays(days int) int {
	switch {
	case days <= 0:
		days = s.defaultDays
	case days > maxSummaryDays:
		days = maxSummaryDays
	}
	return min(days, maxSummaryDays)
}
