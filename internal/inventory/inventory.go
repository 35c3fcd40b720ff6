package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Uzair-37/Standard-website/internal/catalog"
)

// ErrUnknownProduct marks stock operations against products the upstream
// system does not carry.
var ErrUnknownProduct = errors.New("unknown product")

// syncWorkers bounds the per-product fan-out toward the upstream.
const syncWorkers = 8

// Connector is the upstream inventory integration point. The shipped
// implementation is a simulator; a real warehouse client satisfies the
// same interface.
type Connector interface {
	// GetStock returns current stock per product id.
	GetStock(ctx context.Context) (map[string]int, error)

	// UpdateStock replaces one product's stock level.
	UpdateStock(ctx context.Context, productID string, stock int) error

	// SyncInventory refreshes the given products from the upstream and
	// returns them with stock levels applied.
	SyncInventory(ctx context.Context, products []catalog.Product) ([]catalog.Product, error)
}

// Simulator is an in-process stand-in for a warehouse system: a stock map
// behind a mutex plus a fixed artificial latency on every upstream call.
type Simulator struct {
	mu      sync.RWMutex
	stock   map[string]int
	latency time.Duration
	group   singleflight.Group // dedupe concurrent full-stock reads
}

// NewSimulator seeds stock from products. latency applies to every
// simulated call; zero disables it.
func NewSimulator(products []catalog.Product, latency time.Duration) *Simulator {
	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.Stock
	}
	return &Simulator{stock: stock, latency: latency}
}

// wait simulates one upstream round trip, honoring cancellation.
func (s *Simulator) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetStock returns a copy of all stock levels. Concurrent callers share
// one simulated round trip.
func (s *Simulator) GetStock(ctx context.Context) (map[string]int, error) {
	result, err, _ := s.group.Do("stock", func() (interface{}, error) {
		if err := s.wait(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		stock := make(map[string]int, len(s.stock))
		for id, qty := range s.stock {
			stock[id] = qty
		}
		return stock, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int), nil
}

// UpdateStock replaces one product's stock level.
func (s *Simulator) UpdateStock(ctx context.Context, productID string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock for %s must be >= 0, got %d", productID, stock)
	}
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stock[productID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	s.stock[productID] = stock
	return nil
}

// SyncInventory refreshes every product concurrently, one simulated round
// trip each. The first failure cancels the remaining lookups.
func (s *Simulator) SyncInventory(ctx context.Context, products []catalog.Product) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(syncWorkers)
	for i, p := range products {
		g.Go(func() error {
			if err := s.wait(ctx); err != nil {
				return err
			}
			s.mu.RLock()
			stock, ok := s.stock[p.ID]
			s.mu.RUnlock()
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownProduct, p.ID)
			}
			p.Stock = stock
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
