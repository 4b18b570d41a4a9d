package jobs

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/bookbright/electryohype/internal/dropship"
	"github.com/bookbright/electryohype/internal/metrics"
	"github.com/bookbright/electryohype/storage/db"
)

const (
	// DefaultSupplierPollInterval is how often open supplier orders are refreshed.
	DefaultSupplierPollInterval = 30 * time.Minute

	pollBatchSize   = 100
	pollConcurrency = 4
)

// SupplierStatusPoller refreshes the supplier status of orders that have
// been sent but are not yet finished.
type SupplierStatusPoller struct {
	queries  *db.Queries
	client   dropship.Client
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewSupplierStatusPoller(queries *db.Queries, client dropship.Client, interval time.Duration) *SupplierStatusPoller {
	if interval <= 0 {
		interval = DefaultSupplierPollInterval
	}
	return &SupplierStatusPoller{
		queries:  queries,
		client:   client,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start returns at once. A background goroutine polls immediately, then
// on the interval until Stop is called or ctx is done.
func (p *SupplierStatusPoller) Start(ctx context.Context) {
	slog.Info("starting supplier status poller", "interval", p.interval)

	p.ticker = time.NewTicker(p.interval)
	go func() {
		p.Poll(ctx)
		for {
			select {
			case <-p.ticker.C:
				p.Poll(ctx)
			case <-ctx.Done():
				p.ticker.Stop()
				return
			case <-p.done:
				slog.Info("supplier status poller stopped")
				return
			}
		}
	}()
}

func (p *SupplierStatusPoller) Stop() {
	p.stopOnce.Do(func() {
		if p.ticker != nil {
			p.ticker.Stop()
		}
		close(p.done)
	})
}

// Poll checks every open supplier order once and returns how many changed.
func (p *SupplierStatusPoller) Poll(ctx context.Context) int {
	orders, err := p.queries.ListOpenSupplierOrders(ctx, pollBatchSize)
	if err != nil {
		slog.Error("failed to list open supplier orders", "error", err)
		return 0
	}
	if len(orders) == 0 {
		slog.Debug("no open supplier orders")
		return 0
	}

	var (
		sem     = semaphore.NewWeighted(pollConcurrency)
		wg      sync.WaitGroup
		changed atomic.Int64
	)
	for _, o := range orders {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			if p.refresh(ctx, o) {
				changed.Add(1)
			}
		}()
	}
	wg.Wait()

	n := int(changed.Load())
	if n > 0 {
		slog.Info("supplier order statuses updated", "checked", len(orders), "changed", n)
	}
	return n
}

func (p *SupplierStatusPoller) refresh(ctx context.Context, o db.Order) bool {
	resp, err := p.client.GetOrder(ctx, o.SupplierOrderID.String)
	if err != nil {
		slog.Warn("failed to fetch supplier order", "order_id", o.ID, "supplier_order_id", o.SupplierOrderID.String, "error", err)
		return false
	}

	status := dropship.ParseStatus(resp.Status)
	if status == o.SupplierOrderStatus {
		return false
	}

	if err := p.queries.UpdateSupplierOrderStatus(ctx, db.UpdateSupplierOrderStatusParams{
		SupplierOrderStatus: status,
		ID:                  o.ID,
	}); err != nil {
		slog.Error("failed to update supplier order status", "order_id", o.ID, "error", err)
		return false
	}

	metrics.RecordSupplierOrder(string(status))
	slog.Info("supplier order status changed", "order_id", o.ID, "from", o.SupplierOrderStatus, "to", status)
	return true
}
