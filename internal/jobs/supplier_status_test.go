package jobs

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbright/electryohype/internal/dropship"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

type statusClient struct {
	mu       sync.Mutex
	statuses map[string]string
	fail     map[string]bool
	lookups  []string
	release  chan struct{}
}

func (c *statusClient) PlaceOrder(context.Context, dropship.OrderRequest) (*dropship.OrderResponse, error) {
	return nil, errors.New("not used")
}

func (c *statusClient) GetOrder(_ context.Context, id string) (*dropship.OrderResponse, error) {
	if c.release != nil {
		<-c.release
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups = append(c.lookups, id)
	if c.fail[id] {
		return nil, errors.New("supplier unavailable")
	}
	return &dropship.OrderResponse{ID: id, Status: c.statuses[id]}, nil
}

func seedOrder(t *testing.T, q *db.Queries, id string, status db.SupplierOrderStatus, supplierID string) {
	t.Helper()
	ctx := context.Background()
	_, err := q.CreateOrder(ctx, db.CreateOrderParams{
		ID:            id,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
	})
	require.NoError(t, err)

	if status == db.SupplierOrderStatusNotSent {
		return
	}
	require.NoError(t, q.UpdateSupplierOrder(ctx, db.UpdateSupplierOrderParams{
		SupplierOrderStatus: status,
		SupplierOrderID:     sql.NullString{String: supplierID, Valid: supplierID != ""},
		SupplierProvider:    sql.NullString{String: "temu", Valid: true},
		SupplierSentAt:      sql.NullTime{Time: time.Now(), Valid: true},
		ID:                  id,
	}))
}

func TestSupplierStatusPoller_Poll(t *testing.T) {
	_, q, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	seedOrder(t, q, "ord_shipped", db.SupplierOrderStatusSent, "S1")
	seedOrder(t, q, "ord_same", db.SupplierOrderStatusProcessing, "S2")
	seedOrder(t, q, "ord_error", db.SupplierOrderStatusSent, "S3")
	seedOrder(t, q, "ord_done", db.SupplierOrderStatusDelivered, "S4")
	seedOrder(t, q, "ord_unsent", db.SupplierOrderStatusNotSent, "")

	client := &statusClient{
		statuses: map[string]string{"S1": "shipped", "S2": "processing", "S4": "cancelled"},
		fail:     map[string]bool{"S3": true},
	}
	p := NewSupplierStatusPoller(q, client, time.Hour)

	changed := p.Poll(context.Background())

	assert.Equal(t, 1, changed)
	assert.ElementsMatch(t, []string{"S1", "S2", "S3"}, client.lookups)

	want := map[string]db.SupplierOrderStatus{
		"ord_shipped": db.SupplierOrderStatusShipped,
		"ord_same":    db.SupplierOrderStatusProcessing,
		"ord_error":   db.SupplierOrderStatusSent,
		"ord_done":    db.SupplierOrderStatusDelivered,
		"ord_unsent":  db.SupplierOrderStatusNotSent,
	}
	for id, status := range want {
		o, err := q.GetOrder(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, status, o.SupplierOrderStatus, id)
	}

	assert.Equal(t, 0, p.Poll(context.Background()), "second poll has nothing new")
}

func TestSupplierStatusPoller_StartStop(t *testing.T) {
	_, q, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	seedOrder(t, q, "ord_1", db.SupplierOrderStatusSent, "S1")
	client := &statusClient{statuses: map[string]string{"S1": "delivered"}}

	p := NewSupplierStatusPoller(q, client, time.Hour)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	assert.Eventually(t, func() bool {
		o, err := q.GetOrder(context.Background(), "ord_1")
		return err == nil && o.SupplierOrderStatus == db.SupplierOrderStatusDelivered
	}, 2*time.Second, 10*time.Millisecond, "the first poll runs even when stopped right away")
}

func TestSupplierStatusPoller_StartDoesNotWaitForSupplier(t *testing.T) {
	_, q, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	defer cleanup()

	seedOrder(t, q, "ord_1", db.SupplierOrderStatusSent, "S1")
	client := &statusClient{
		statuses: map[string]string{"S1": "shipped"},
		release:  make(chan struct{}),
	}

	p := NewSupplierStatusPoller(q, client, time.Hour)
	defer p.Stop()

	started := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(started)
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("Start blocked on the supplier API")
	}

	close(client.release)
	assert.Eventually(t, func() bool {
		o, err := q.GetOrder(context.Background(), "ord_1")
		return err == nil && o.SupplierOrderStatus == db.SupplierOrderStatusShipped
	}, 2*time.Second, 10*time.Millisecond)
}
