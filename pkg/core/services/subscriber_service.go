package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

type SubscriberService struct {
	repo   ports.PlaceRepository
	places ports.PlaceService
	log    logrus.FieldLogger
	now    func() time.Time
}

var _ ports.SubscriberService = (*SubscriberService)(nil)

func NewSubscriberService(repo ports.PlaceRepository, places ports.PlaceService, log logrus.FieldLogger) *SubscriberService {
	return &SubscriberService{repo: repo, places: places, log: log, now: time.Now}
}

type subscribeInput struct {
	Email string `validate:"required,email,max=320"`
}

// Subscribe adds a visitor email to an active place. Subscribing the same
// address twice keeps the first record.
func (s *SubscriberService) Subscribe(ctx context.Context, placeID, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := Validate(subscribeInput{Email: email}); err != nil {
		return nil, err
	}
	p, err := s.places.GetPublicPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrPlaceInactive
	}

	sub := &domain.Subscriber{
		PlaceID:      placeID,
		Email:        email,
		Source:       domain.SubscriberSourceProfileWidget,
		SubscribedAt: s.now(),
	}
	if err := s.repo.AddSubscriber(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	s.log.WithField("place_id", placeID).Info("subscriber added")
	return sub, nil
}

func (s *SubscriberService) List(ctx context.Context, owner, placeID string) ([]domain.Subscriber, error) {
	if _, err := s.places.GetPlace(ctx, owner, placeID); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubscribers(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if subs == nil {
		subs = []domain.Subscriber{}
	}
	return subs, nil
}
