package slack

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const asyncPublishTimeout = 10 * time.Second

// Async publishes off the request path. Wait blocks until every message
// handed to Publish has been delivered or has failed.
type Async struct {
	next Notifier
	log  *zap.Logger
	wg   sync.WaitGroup
}

func NewAsync(next Notifier, log *zap.Logger) *Async {
	return &Async{next: next, log: log}
}

// Publish returns immediately. The message is sent with its own deadline so a
// finished request does not cancel it.
func (a *Async) Publish(_ context.Context, message string) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()
		if err := a.next.Publish(ctx, message); err != nil {
			a.log.Error("Error publishing to slack", zap.Error(err))
		}
	}()
	return nil
}

// Wait must only be called once no more Publish calls can start, after the
// HTTP server has shut down.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
