package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fogsim/fogerr"
	"fogsim/geo"
)

// bridgeFrame is the JSON document the external traffic microsimulator
// bridge process sends once per tick, one per websocket message.
type bridgeFrame struct {
	Tick      int                  `json:"tick"`
	Added     []string             `json:"added"`
	Removed   []string             `json:"removed"`
	Positions map[string]geo.Point `json:"positions"`
	MinX      float64              `json:"min_x"`
	MinY      float64              `json:"min_y"`
	MaxX      float64              `json:"max_x"`
	MaxY      float64              `json:"max_y"`
	Remaining int                  `json:"expected_remaining"`
}

// BridgeOracle is a gorilla/websocket client that dials an external traffic
// microsimulator bridge and decodes its per-tick frames into the Oracle
// interface. Reads happen on a background goroutine (mirroring the
// teacher's worker-pool pattern: a goroutine drains a channel while public
// methods read shared state behind a mutex) so Step only has to wait for
// the next frame rather than blocking on socket I/O directly.
type BridgeOracle struct {
	conn   *websocket.Conn
	log    *zap.Logger
	frames chan bridgeFrame

	mu        sync.RWMutex
	min, max  geo.Point
	known     map[string]struct{}
	positions map[string]geo.Point
	remaining int

	readErr error
}

// DialBridge connects to a bridge process at url and starts reading frames.
func DialBridge(ctx context.Context, url string, log *zap.Logger) (*BridgeOracle, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fogerr.OracleFailuref("dialing mobility bridge %q: %v", url, err)
	}

	b := &BridgeOracle{
		conn:      conn,
		log:       log,
		frames:    make(chan bridgeFrame, 1),
		known:     make(map[string]struct{}),
		positions: make(map[string]geo.Point),
	}
	go b.readLoop()
	return b, nil
}

func (b *BridgeOracle) readLoop() {
	for {
		var f bridgeFrame
		if err := b.conn.ReadJSON(&f); err != nil {
			b.mu.Lock()
			b.readErr = err
			b.mu.Unlock()
			close(b.frames)
			return
		}
		b.frames <- f
	}
}

func (b *BridgeOracle) NetBoundary() (geo.Point, geo.Point) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.min, b.max
}

// Step waits for the next decoded frame (or ctx cancellation) and applies it.
func (b *BridgeOracle) Step(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case f, ok := <-b.frames:
		if !ok {
			b.mu.RLock()
			err := b.readErr
			b.mu.RUnlock()
			return fogerr.OracleFailuref("mobility bridge connection closed: %v", err)
		}
		b.apply(f)
		return nil
	case <-time.After(30 * time.Second):
		return fogerr.OracleFailuref("timed out waiting for mobility bridge frame")
	}
}

func (b *BridgeOracle) apply(f bridgeFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.min = geo.Point{X: f.MinX, Y: f.MinY}
	b.max = geo.Point{X: f.MaxX, Y: f.MaxY}
	b.remaining = f.Remaining

	for _, id := range f.Removed {
		delete(b.known, id)
		delete(b.positions, id)
	}
	for _, id := range f.Added {
		b.known[id] = struct{}{}
	}
	for id, pos := range f.Positions {
		if _, ok := b.known[id]; ok {
			b.positions[id] = pos
		}
	}
	if b.log != nil {
		b.log.Debug("applied mobility bridge frame", zap.Int("tick", f.Tick), zap.Int("vehicles", len(b.known)))
	}
}

func (b *BridgeOracle) ExpectedRemaining() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.remaining
}

func (b *BridgeOracle) VehicleIDs() map[string]struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]struct{}, len(b.known))
	for id := range b.known {
		out[id] = struct{}{}
	}
	return out
}

func (b *BridgeOracle) VehiclePosition(id string) (geo.Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pos, ok := b.positions[id]
	if !ok {
		return geo.Point{}, fogerr.OracleFailuref("vehicle %q not known to the mobility bridge", id)
	}
	return pos, nil
}

// Close releases the underlying websocket connection.
func (b *BridgeOracle) Close() error { return b.conn.Close() }
