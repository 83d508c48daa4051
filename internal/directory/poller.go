package directory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
)

// DefaultInterval is the room roster refresh cadence.
const DefaultInterval = 5 * time.Second

// Poller refreshes the room directory on a fixed cadence and publishes the
// full list as a "directory.rooms" event. A failed refresh publishes
// "directory.error" and the previous roster stays in effect until the next
// tick.
type Poller struct {
	client   *Client
	bus      *bus.Bus
	logger   *zap.Logger
	interval time.Duration
	cancel   context.CancelFunc
}

// NewPoller creates a poller. A non-positive interval falls back to
// DefaultInterval.
func NewPoller(client *Client, b *bus.Bus, logger *zap.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		bus:      b,
		logger:   logger,
		interval: interval,
	}
}

// Start begins polling. The first refresh happens immediately.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

// Stop stops the poller loop.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Poller) loop(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	rooms, err := p.client.ListRooms(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("room list refresh failed", zap.Error(err))
		p.bus.Publish(bus.Event{
			Kind:      "directory.error",
			Timestamp: time.Now(),
			Payload:   err.Error(),
		})
		return
	}
	p.bus.Publish(bus.Event{
		Kind:      "directory.rooms",
		Timestamp: time.Now(),
		Payload:   rooms,
	})
}
