// internal/grid/sync.go
package grid

import (
	"context"

	"github.com/elibest/inventory-backend/internal/models"
	"github.com/elibest/inventory-backend/internal/realtime"
)

// Feed delivers change notifications scoped to a category. Satisfied by
// *realtime.ChangeFeed; tests inject channel-backed fakes.
type Feed interface {
	Subscribe(ctx context.Context, category models.Category) (<-chan realtime.Event, error)
}

// Listener keeps a grid in step with the store. On any change event for
// the grid's category it re-fetches the full category set and proposes
// it as a snapshot; the grid's dirty guard decides whether the snapshot
// is adopted. Switching categories means stopping this listener and
// starting a new one.
type Listener struct {
	grid   *Grid
	feed   Feed
	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener(grid *Grid, feed Feed) *Listener {
	return &Listener{grid: grid, feed: feed}
}

// Start subscribes to the grid's category and processes events until
// Stop is called or the context is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	events, err := l.feed.Subscribe(ctx, l.grid.Category())
	if err != nil {
		cancel()
		return err
	}

	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				items := l.grid.gateway.FetchByCategory(ctx, l.grid.Category())
				l.grid.AdoptSnapshot(items)
			}
		}
	}()

	return nil
}

// Stop tears down the subscription and waits for the event loop to
// drain. In-flight fetches are not aborted; a late result is applied to
// whatever state exists when it lands.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	l.cancel = nil
}
