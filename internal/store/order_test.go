package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/models"
)

func testAddress() models.Address {
	return models.Address{
		ID:           "addr-1",
		FullName:     "Asha Rao",
		Phone:        "9000000000",
		AddressLine1: "12 Market Road",
		City:         "Pune",
		State:        "MH",
		PostalCode:   "411001",
		IsDefault:    true,
	}
}

func TestBuildOrderSnapshotsPrices(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.UnixMilli(1700000000123)
	lines := []models.CartLine{line(20, 1), line(15, 2)}

	order, items := buildOrder(userID, lines, testAddress(), OrderOptions{}, "NVS", now)

	assert.Equal(t, 50.0, order.TotalAmount)
	assert.Equal(t, "NVS1700000000123", order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, testAddress(), order.DeliveryAddress)
	assert.False(t, order.ID.IsZero())

	require.Len(t, items, 2)
	assert.Equal(t, 20.0, items[0].UnitPrice)
	assert.Equal(t, 20.0, items[0].TotalPrice)
	assert.Equal(t, 15.0, items[1].UnitPrice)
	assert.Equal(t, 30.0, items[1].TotalPrice)
	for i, item := range items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, lines[i].ProductID, item.ProductID)
	}

	// later price changes must not leak into the built order
	lines[0].Product.Price = 99
	assert.Equal(t, 20.0, items[0].UnitPrice)
}

func TestBuildOrderKeepsOptions(t *testing.T) {
	order, items := buildOrder(primitive.NewObjectID(), []models.CartLine{line(10, 1)}, testAddress(), OrderOptions{
		PaymentMethod:   models.PaymentMethodRazorpay,
		Notes:           "  leave at the door ",
		RazorpayOrderID: "order_Abc123",
	}, "NVS", time.Now())

	assert.Equal(t, models.PaymentMethodRazorpay, order.PaymentMethod)
	assert.Equal(t, "leave at the door", order.Notes)
	assert.Equal(t, "order_Abc123", order.RazorpayOrderID)
	assert.Len(t, items, 1)
}

func TestOrderStoreCreateOrder(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	mt.Run("writes order, items and clears cart", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			okWrite(2),
		)

		order, err := s.CreateOrder(ctx, userID, []models.CartLine{line(20, 1), line(15, 2)}, testAddress(), OrderOptions{})
		require.NoError(mt, err)
		assert.Equal(mt, 50.0, order.TotalAmount)
		assert.True(mt, strings.HasPrefix(order.OrderNumber, "NVS"))

		insertOrder := nextCommand(mt, "insert")
		assert.Equal(mt, ordersCollection, insertOrder.Command.Lookup("insert").StringValue())
		assert.Equal(mt, "pending", insertOrder.Command.Lookup("documents", "0", "status").StringValue())
		assert.Equal(mt, "Pune", insertOrder.Command.Lookup("documents", "0", "delivery_address", "city").StringValue())

		insertItems := nextCommand(mt, "insert")
		assert.Equal(mt, orderItemsCollection, insertItems.Command.Lookup("insert").StringValue())
		docs, err := insertItems.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, docs, 2)
		assert.Equal(mt, 30.0, insertItems.Command.Lookup("documents", "1", "total_price").Double())

		clearCmd := nextCommand(mt, "delete")
		assert.Equal(mt, cartItemsCollection, clearCmd.Command.Lookup("delete").StringValue())
		assert.Equal(mt, userID, clearCmd.Command.Lookup("deletes", "0", "q", "user_id").ObjectID())
	})

	mt.Run("item insert failure leaves order without rollback", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			commandError(),
		)

		order, err := s.CreateOrder(ctx, userID, []models.CartLine{line(20, 1)}, testAddress(), OrderOptions{})
		require.Error(mt, err)
		assert.Nil(mt, order)

		nextCommand(mt, "insert")
		nextCommand(mt, "insert")
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("order insert failure stops early", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(commandError())

		_, err := s.CreateOrder(ctx, userID, []models.CartLine{line(20, 1)}, testAddress(), OrderOptions{})
		require.Error(mt, err)
	})

	mt.Run("empty cart", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		_, err := s.CreateOrder(ctx, userID, nil, testAddress(), OrderOptions{})
		assert.ErrorIs(mt, err, ErrEmptyCart)
	})
}

func orderDoc(orderID, userID primitive.ObjectID, number string) bson.D {
	productID := primitive.NewObjectID()
	return bson.D{
		{Key: "_id", Value: orderID},
		{Key: "user_id", Value: userID},
		{Key: "order_number", Value: number},
		{Key: "status", Value: "pending"},
		{Key: "total_amount", Value: 30.0},
		{Key: "payment_method", Value: "cod"},
		{Key: "payment_status", Value: "pending"},
		{Key: "delivery_address", Value: bson.D{{Key: "city", Value: "Pune"}}},
		{Key: "items", Value: bson.A{
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "order_id", Value: orderID},
				{Key: "product_id", Value: productID},
				{Key: "quantity", Value: 2},
				{Key: "unit_price", Value: 15.0},
				{Key: "total_price", Value: 30.0},
				{Key: "product", Value: bson.D{
					{Key: "_id", Value: productID},
					{Key: "name", Value: "Milk"},
					{Key: "unit", Value: "1 L"},
				}},
			},
		}},
	}
}

func TestOrderStoreGetUserOrders(t *testing.T) {
	mt := newMockT(t)
	userID := primitive.NewObjectID()

	mt.Run("decodes nested items", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(ordersCollection), mtest.FirstBatch,
			orderDoc(primitive.NewObjectID(), userID, "NVS2"),
			orderDoc(primitive.NewObjectID(), userID, "NVS1"),
		))

		orders, err := s.GetUserOrders(context.Background(), userID)
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, "NVS2", orders[0].OrderNumber)
		require.Len(mt, orders[0].Items, 1)
		assert.Equal(mt, 15.0, orders[0].Items[0].UnitPrice)
		require.NotNil(mt, orders[0].Items[0].Product)
		assert.Equal(mt, "Milk", orders[0].Items[0].Product.Name)

		agg := nextCommand(mt, "aggregate")
		assert.Equal(mt, userID, agg.Command.Lookup("pipeline", "0", "$match", "user_id").ObjectID())
		assert.Equal(mt, int64(-1), agg.Command.Lookup("pipeline", "1", "$sort", "created_at").AsInt64())
	})

	mt.Run("backing failure", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(commandError())

		_, err := s.GetUserOrders(context.Background(), userID)
		require.Error(mt, err)
	})
}

func TestOrderStoreGetOrder(t *testing.T) {
	mt := newMockT(t)
	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()

	mt.Run("owned order", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(ordersCollection), mtest.FirstBatch,
			orderDoc(orderID, userID, "NVS1"),
		))

		order, err := s.GetOrder(context.Background(), orderID, userID)
		require.NoError(mt, err)
		assert.Equal(mt, orderID, order.ID)
		assert.Len(mt, order.Items, 1)
	})

	mt.Run("order of another user is not found", func(mt *mtest.T) {
		s := NewOrderStore(mt.DB, "NVS")
		otherUser := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(ordersCollection), mtest.FirstBatch))

		order, err := s.GetOrder(context.Background(), orderID, otherUser)
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, order)

		agg := nextCommand(mt, "aggregate")
		assert.Equal(mt, orderID, agg.Command.Lookup("pipeline", "0", "$match", "_id").ObjectID())
		assert.Equal(mt, otherUser, agg.Command.Lookup("pipeline", "0", "$match", "user_id").ObjectID())
	})
}
