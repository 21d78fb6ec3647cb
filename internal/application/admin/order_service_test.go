package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared/valueobject"
)

func backendOrder(id string, status order.Status, total string) order.Order {
	return order.Order{
		ID:       id,
		FullName: "Ayla Benali",
		Phone:    "+33 6 12 34 56 78",
		Address:  "12 Rue de la Mode, Paris",
		Size:     "M",
		Items: []order.Item{
			{ProductID: "p1", Quantity: 2},
		},
		Total:     valueobject.NewMoneyUSD(decimal.RequireFromString(total)),
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func newOrderFixture(t *testing.T) (*OrderService, *fakeBackendGateway, *recordingPublisher) {
	t.Helper()
	gateway := &fakeBackendGateway{}
	publisher := &recordingPublisher{}
	svc := NewOrderService(gateway, zap.NewNop())
	svc.SetEventPublisher(publisher)
	return svc, gateway, publisher
}

func TestOrderService_List(t *testing.T) {
	svc, gateway, _ := newOrderFixture(t)
	gateway.orders = []order.Order{
		backendOrder("o1", order.StatusPending, "119.80"),
		backendOrder("o2", order.StatusDelivered, "45.00"),
	}

	views, err := svc.List(context.Background(), "admin-token")
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "o1", views[0].ID)
	assert.Equal(t, "119.80", views[0].Total)
	assert.Equal(t, "pending", views[0].Status)
	assert.Equal(t, []string{"confirmed", "cancelled"}, views[0].AllowedTransitions)
	require.Len(t, views[0].Items, 1)
	assert.Equal(t, "p1", views[0].Items[0].ProductID)

	// Terminal statuses offer nothing
	assert.Empty(t, views[1].AllowedTransitions)
	assert.Equal(t, "admin-token", gateway.lastToken)
}

func TestOrderService_List_BackendError(t *testing.T) {
	svc, gateway, _ := newOrderFixture(t)
	gateway.err = shared.ErrBackendUnavailable

	_, err := svc.List(context.Background(), "admin-token")
	require.ErrorIs(t, err, shared.ErrBackendUnavailable)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, gateway, publisher := newOrderFixture(t)
	gateway.orders = []order.Order{
		backendOrder("o1", order.StatusPending, "119.80"),
	}

	view, err := svc.UpdateStatus(context.Background(), "admin-token", "o1", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", view.Status)
	assert.Equal(t, []string{"shipped", "cancelled"}, view.AllowedTransitions)
	assert.Equal(t, order.StatusConfirmed, gateway.lastStatus)
	assert.Equal(t, "o1", gateway.lastOrderID)

	events := publisher.published()
	require.Len(t, events, 1)
	changed, ok := events[0].(*order.OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "o1", changed.OrderID)
	assert.Equal(t, order.StatusConfirmed, changed.NewStatus)
}

func TestOrderService_UpdateStatus_InvalidValue(t *testing.T) {
	svc, gateway, publisher := newOrderFixture(t)

	_, err := svc.UpdateStatus(context.Background(), "admin-token", "o1", "teleported")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)

	assert.Equal(t, 0, gateway.callCount())
	assert.Empty(t, publisher.published())
}

func TestOrderService_UpdateStatus_EmptyOrderID(t *testing.T) {
	svc, gateway, _ := newOrderFixture(t)

	_, err := svc.UpdateStatus(context.Background(), "admin-token", "", "confirmed")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ORDER", domainErr.Code)
	assert.Equal(t, 0, gateway.callCount())
}

func TestOrderService_UpdateStatus_BackendError(t *testing.T) {
	svc, gateway, publisher := newOrderFixture(t)
	gateway.err = shared.ErrBackendUnavailable

	_, err := svc.UpdateStatus(context.Background(), "admin-token", "o1", "confirmed")
	require.ErrorIs(t, err, shared.ErrBackendUnavailable)
	assert.Empty(t, publisher.published())
}
