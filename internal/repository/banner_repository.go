package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stanstork/batchboard-api/internal/models"
)

// ErrBannerNotFound is returned when a banner id does not exist.
var ErrBannerNotFound = errors.New("banner not found")

type BannerRepository interface {
	List(ctx context.Context) ([]models.Banner, error)
	Get(ctx context.Context, id string) (models.Banner, error)
	Add(ctx context.Context, params CreateBannerParams) (models.Banner, error)
	Update(ctx context.Context, id string, params UpdateBannerParams) (models.Banner, error)
}

type CreateBannerParams struct {
	Message  string
	Severity models.BannerSeverity
	Active   bool
}

// UpdateBannerParams carries a partial update; nil fields are left unchanged.
type UpdateBannerParams struct {
	Message  *string
	Severity *models.BannerSeverity
	Active   *bool
}

// memoryBannerRepository keeps banners for the process lifetime. Concurrent
// updates to the same banner are last-write-wins.
type memoryBannerRepository struct {
	mu      sync.RWMutex
	banners []models.Banner
	now     func() time.Time
}

// NewMemoryBannerRepository returns an isolated store, optionally pre-loaded.
func NewMemoryBannerRepository(initial ...models.Banner) BannerRepository {
	banners := make([]models.Banner, len(initial))
	copy(banners, initial)
	return &memoryBannerRepository{banners: banners, now: time.Now}
}

func (r *memoryBannerRepository) List(_ context.Context) ([]models.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// newest first
	out := make([]models.Banner, 0, len(r.banners))
	for i := len(r.banners) - 1; i >= 0; i-- {
		out = append(out, r.banners[i])
	}
	return out, nil
}

func (r *memoryBannerRepository) Get(_ context.Context, id string) (models.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Banner{}, ErrBannerNotFound
	}
	return r.banners[idx], nil
}

func (r *memoryBannerRepository) Add(_ context.Context, params CreateBannerParams) (models.Banner, error) {
	now := r.now().UTC()
	banner := models.Banner{
		ID:        uuid.NewString(),
		Message:   params.Message,
		Severity:  params.Severity,
		Active:    params.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.banners = append(r.banners, banner)
	r.mu.Unlock()
	return banner, nil
}

func (r *memoryBannerRepository) Update(_ context.Context, id string, params UpdateBannerParams) (models.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Banner{}, ErrBannerNotFound
	}
	banner := r.banners[idx]
	if params.Message != nil {
		banner.Message = *params.Message
	}
	if params.Severity != nil {
		banner.Severity = *params.Severity
	}
	if params.Active != nil {
		banner.Active = *params.Active
	}
	banner.UpdatedAt = r.now().UTC()
	r.banners[idx] = banner
	return banner, nil
}

// indexOf must be called with r.mu held.
func (r *memoryBannerRepository) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i, b := range r.banners {
		if b.ID == id {
			return i
		}
	}
	return -1
}
