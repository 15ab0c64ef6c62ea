package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *memStore, userID uuid.UUID) *order.Order {
	t.Helper()
	o := order.NewOrder(userID, uuid.New(), order.PaymentCOD)
	_, err := o.AddItem(uuid.New(), 1, decimal.NewFromInt(25))
	require.NoError(t, err)
	store.orders[o.ID] = o
	return o
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves order along the lifecycle", func(t *testing.T) {
		store := newMemStore()
		svc := NewOrderService(&memOrderRepo{store})
		o := seedOrder(t, store, uuid.New())

		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "processing"})
		require.NoError(t, err)
		assert.Equal(t, "processing", resp.Status)
	})

	t.Run("rejects an illegal transition", func(t *testing.T) {
		store := newMemStore()
		svc := NewOrderService(&memOrderRepo{store})
		o := seedOrder(t, store, uuid.New())

		_, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})
		require.Error(t, err)
		assert.Equal(t, order.StatusPending, store.orders[o.ID].Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		store := newMemStore()
		svc := NewOrderService(&memOrderRepo{store})
		o := seedOrder(t, store, uuid.New())

		_, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "archived"})
		require.Error(t, err)
	})

	t.Run("delivering a cash-on-delivery order settles it", func(t *testing.T) {
		store := newMemStore()
		svc := NewOrderService(&memOrderRepo{store})
		o := seedOrder(t, store, uuid.New())
		o.Status = order.StatusShipped

		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})
		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)
		assert.Equal(t, order.PaymentPaid, store.orders[o.ID].PaymentStatus)
	})

	t.Run("delivering a card order leaves payment untouched", func(t *testing.T) {
		store := newMemStore()
		svc := NewOrderService(&memOrderRepo{store})
		o := order.NewOrder(uuid.New(), uuid.New(), order.PaymentCard)
		_, err := o.AddItem(uuid.New(), 1, decimal.NewFromInt(25))
		require.NoError(t, err)
		o.Status = order.StatusShipped
		store.orders[o.ID] = o

		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})
		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)
		assert.Equal(t, order.PaymentUnpaid, store.orders[o.ID].PaymentStatus)
	})
}

func TestOrderServiceGetForUser(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewOrderService(&memOrderRepo{store})

	userID := uuid.New()
	o := seedOrder(t, store, userID)

	t.Run("owner can read the order", func(t *testing.T) {
		resp, err := svc.GetForUser(ctx, o.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, resp.ID)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("other users get not found", func(t *testing.T) {
		_, err := svc.GetForUser(ctx, o.ID, uuid.New())
		require.Error(t, err)
	})
}
