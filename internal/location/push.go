package location

import (
	"context"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/skypark/internal/models"
)

// PushSource receives readings from outside the process, for example from a
// browser posting its own geolocation. Readings are delivered synchronously to
// every subscriber in the caller's goroutine.
type PushSource struct {
	mu     sync.RWMutex
	subs   map[int]pushSubscriber
	nextID int
	log    *slog.Logger
	perm   permission
}

type pushSubscriber struct {
	onUpdate func(models.Reading)
	onError  func(error)
}

// NewPushSource creates an empty push source.
func NewPushSource(log *slog.Logger) *PushSource {
	return &PushSource{subs: make(map[int]pushSubscriber), log: log}
}

// RequestPermission always succeeds; the pushing client owns its own permission step
// and reports refusals through Fail.
func (p *PushSource) RequestPermission(_ context.Context) error {
	p.perm.grant()
	return nil
}

// Subscribe registers callbacks for published readings.
// The returned cancel function must not be called from inside a callback.
func (p *PushSource) Subscribe(
	ctx context.Context,
	onUpdate func(models.Reading),
	onError func(error),
) (context.CancelFunc, error) {
	if err := p.perm.check(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = pushSubscriber{onUpdate: onUpdate, onError: onError}
	p.mu.Unlock()

	p.log.DebugContext(ctx, "Push location subscriber registered", "subscriber", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}, nil
}

// Publish delivers reading to all subscribers and reports how many received it.
func (p *PushSource) Publish(reading models.Reading) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, sub := range p.subs {
		sub.onUpdate(reading)
	}

	return len(p.subs)
}

// Fail delivers an acquisition failure to all subscribers.
func (p *PushSource) Fail(err *UnavailableError) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, sub := range p.subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}

	return len(p.subs)
}
