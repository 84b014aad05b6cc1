package cache

import (
	"context"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// NopCache always misses.
type NopCache struct{}

var _ ports.PlaceCache = NopCache{}

func (NopCache) GetPlace(context.Context, string) (*domain.Place, error) { return nil, nil }
func (NopCache) SetPlace(context.Context, *domain.Place) error          { return nil }
func (NopCache) Invalidate(context.Context, string) error               { return nil }

// AllowAll never limits.
type AllowAll struct{}

var _ ports.RateLimiter = AllowAll{}

func (AllowAll) Allow(context.Context, string) (bool, error) { return true, nil }
