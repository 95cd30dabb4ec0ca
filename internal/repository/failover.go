package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type FailoverViewCache struct {
	primary   domain.ViewCache
	fallback  domain.ViewCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverViewCache(primary, fallback domain.ViewCache, logger *zerolog.Logger) *FailoverViewCache {
	return &FailoverViewCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverViewCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary view cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverViewCache) GetView(ctx context.Context, itemID int64) (*models.ItemBookingsView, error) {
	if !r.isDown.Load() {
		view, err := r.primary.GetView(ctx, itemID)
		if err == nil {
			return view, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		view, err := r.primary.GetView(ctx, itemID)
		if err == nil {
			r.isDown.Store(false)
			return view, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetView(ctx, itemID)
}

func (r *FailoverViewCache) SetView(ctx context.Context, view *models.ItemBookingsView) error {
	if !r.isDown.Load() {
		err := r.primary.SetView(ctx, view)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetView(ctx, view)
}

func (r *FailoverViewCache) InvalidateView(ctx context.Context, itemID int64) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateView(ctx, itemID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateView(ctx, itemID)
}

func (r *FailoverViewCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
