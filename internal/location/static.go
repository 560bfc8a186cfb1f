package location

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/skypark/internal/models"
)

var errPermissionNotRequested = errors.New("permission was not requested or was refused")

// StaticSource simulates a user standing still at a fixed position.
// It backs the "test mode" where no real positioning is available.
type StaticSource struct {
	position models.Coordinates
	interval time.Duration
	log      *slog.Logger
	perm     permission
}

// NewStaticSource creates a source that reports position immediately and then every interval.
func NewStaticSource(position models.Coordinates, interval time.Duration, log *slog.Logger) *StaticSource {
	return &StaticSource{position: position, interval: interval, log: log}
}

// RequestPermission always succeeds.
func (s *StaticSource) RequestPermission(ctx context.Context) error {
	s.log.DebugContext(ctx, "Static location source granted permission", "position", s.position)
	s.perm.grant()

	return nil
}

// Subscribe starts emitting the fixed position.
func (s *StaticSource) Subscribe(
	ctx context.Context,
	onUpdate func(models.Reading),
	_ func(error),
) (context.CancelFunc, error) {
	if err := s.perm.check(); err != nil {
		return nil, err
	}

	return loop(ctx, func(ctx context.Context) {
		onUpdate(models.Reading{Coordinates: s.position, Timestamp: time.Now()})
		if s.interval <= 0 {
			<-ctx.Done()
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onUpdate(models.Reading{Coordinates: s.position, Timestamp: time.Now()})
			}
		}
	}), nil
}
