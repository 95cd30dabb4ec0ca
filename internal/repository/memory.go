package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

type MemoryViewCache struct {
	views      sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{
		ttl: ttl,
	}
}

type viewEntry struct {
	view      *models.ItemBookingsView
	expiresAt time.Time
}

func (r *MemoryViewCache) GetView(ctx context.Context, itemID int64) (*models.ItemBookingsView, error) {
	val, ok := r.views.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(*viewEntry)
	if time.Now().After(entry.expiresAt) {
		r.views.Delete(itemID)
		return nil, nil
	}
	return entry.view, nil
}

func (r *MemoryViewCache) SetView(ctx context.Context, view *models.ItemBookingsView) error {
	r.views.Store(view.ItemID, &viewEntry{
		view:      view,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryViewCache) InvalidateView(ctx context.Context, itemID int64) error {
	r.views.Delete(itemID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryViewCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
