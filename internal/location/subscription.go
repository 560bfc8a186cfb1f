package location

import (
	"context"
	"sync"
	"sync/atomic"
)

// permission tracks whether RequestPermission succeeded for a source.
type permission struct {
	granted atomic.Bool
}

func (p *permission) grant() {
	p.granted.Store(true)
}

func (p *permission) check() error {
	if !p.granted.Load() {
		return NewUnavailableError(ReasonPermissionDenied, errPermissionNotRequested)
	}

	return nil
}

// loop runs fn in its own goroutine until the returned cancel function is called
// or parent is done. The cancel function blocks until fn has returned, so it
// must not be called from inside fn.
func loop(parent context.Context, fn func(ctx context.Context)) context.CancelFunc {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		fn(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
