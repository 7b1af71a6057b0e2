package service

import (
	"context"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/filestore"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const sweepTimeout = 2 * time.Minute

// ImageSweeper removes stored images that no product references.
// Files younger than grace are kept so an upload whose record is still
// being written is never swept.
type ImageSweeper struct {
	repo    repository.ProductRepository
	images  filestore.ImageStore
	grace   time.Duration
	now     func() time.Time
	removed prometheus.Counter
}

// NewImageSweeper registers its counter with reg. A nil reg leaves it unregistered.
func NewImageSweeper(repo repository.ProductRepository, images filestore.ImageStore, grace time.Duration, reg prometheus.Registerer) *ImageSweeper {
	return &ImageSweeper{
		repo:   repo,
		images: images,
		grace:  grace,
		now:    time.Now,
		removed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "catalog_orphan_images_removed_total",
			Help: "Number of unreferenced product images removed by the sweeper.",
		}),
	}
}

func (s *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	referenced, err := s.repo.GetImageReferences(ctx)
	if err != nil {
		return 0, err
	}

	files, err := s.images.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Name]; ok {
			continue
		}

		if f.ModTime.After(cutoff) {
			continue
		}

		if err := s.images.Delete(ctx, f.Name); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "ImageSweeper").Str("image", f.Name).Msg("failed to remove orphan image")
			continue
		}

		removed++
		s.removed.Inc()
	}

	return removed, nil
}

// Run is the scheduler entry point.
func (s *ImageSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "ImageSweeper").Msg("orphan image sweep failed")
		return
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Str("component", "ImageSweeper").Msg("orphan images removed")
	}
}
