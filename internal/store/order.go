package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// OrderOptions carries the optional parts of an order. PaymentMethod falls back
// to cash on delivery.
type OrderOptions struct {
	PaymentMethod   string
	Notes           string
	RazorpayOrderID string
}

type OrderStore struct {
	db     *mongo.Database
	prefix string
	now    func() time.Time
}

func NewOrderStore(db *mongo.Database, orderNumberPrefix string) *OrderStore {
	return &OrderStore{db: db, prefix: orderNumberPrefix, now: time.Now}
}

// orderNumber is for display only; two orders placed in the same millisecond
// share a number.
func orderNumber(prefix string, at time.Time) string {
	return prefix + strconv.FormatInt(at.UnixMilli(), 10)
}

// buildOrder prices the cart snapshot as given. Products are not re-read.
func buildOrder(userID primitive.ObjectID, lines []models.CartLine, address models.Address, opts OrderOptions, prefix string, now time.Time) (models.Order, []models.OrderItem) {
	paymentMethod := strings.TrimSpace(opts.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	order := models.Order{
		ID:              primitive.NewObjectIDFromTimestamp(now),
		UserID:          userID,
		OrderNumber:     orderNumber(prefix, now),
		Status:          models.OrderStatusPending,
		TotalAmount:     CartTotal(lines),
		DeliveryAddress: address,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Notes:           strings.TrimSpace(opts.Notes),
		RazorpayOrderID: opts.RazorpayOrderID,
		CreatedAt:       now,
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		unitPrice := linePrice(line)
		items = append(items, models.OrderItem{
			OrderID:    order.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineAmount(unitPrice, line.Quantity).InexactFloat64(),
			CreatedAt:  now,
		})
	}
	return order, items
}

// CreateOrder writes the order, its items, and clears the user's cart, in that
// order. The steps are not transactional: if inserting items or clearing the
// cart fails, the order row stays behind and is logged for manual cleanup.
func (s *OrderStore) CreateOrder(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine, address models.Address, opts OrderOptions) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order, items := buildOrder(userID, lines, address, opts, s.prefix, s.now())

	if _, err := s.db.Collection(ordersCollection).InsertOne(ctx, order); err != nil {
		log.Println("[ORDER] [ERROR] insert order failed:", err)
		return nil, fmt.Errorf("insert order: %w", err)
	}

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	if _, err := s.db.Collection(orderItemsCollection).InsertMany(ctx, docs); err != nil {
		log.Printf("[ORDER] [ERROR] insert order items failed, order %s left without items: %v", order.ID.Hex(), err)
		return nil, fmt.Errorf("insert order items: %w", err)
	}

	if _, err := s.db.Collection(cartItemsCollection).DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		log.Printf("[ORDER] [ERROR] clear cart failed after order %s was created: %v", order.ID.Hex(), err)
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	log.Println("[ORDER] [INFO] order created:", order.OrderNumber)
	return &order, nil
}

func orderDetailPipeline(filter bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: orderItemsCollection},
			{Key: "let", Value: bson.D{{Key: "orderId", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$order_id", "$$orderId"}},
				}}}}},
				bson.D{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: productsCollection},
					{Key: "let", Value: bson.D{{Key: "productId", Value: "$product_id"}}},
					{Key: "pipeline", Value: bson.A{
						bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
							{Key: "$eq", Value: bson.A{"$_id", "$$productId"}},
						}}}}},
						bson.D{{Key: "$project", Value: bson.D{
							{Key: "name", Value: 1},
							{Key: "image_url", Value: 1},
							{Key: "unit", Value: 1},
						}}},
					}},
					{Key: "as", Value: "product"},
				}}},
				bson.D{{Key: "$unwind", Value: bson.D{
					{Key: "path", Value: "$product"},
					{Key: "preserveNullAndEmptyArrays", Value: true},
				}}},
			}},
			{Key: "as", Value: "items"},
		}}},
	}
}

func (s *OrderStore) findDetails(ctx context.Context, filter bson.M) ([]models.OrderDetail, error) {
	cursor, err := s.db.Collection(ordersCollection).Aggregate(ctx, orderDetailPipeline(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.OrderDetail, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetUserOrders returns the user's orders newest first with nested items.
func (s *OrderStore) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderDetail, error) {
	orders, err := s.findDetails(ctx, bson.M{"user_id": userID})
	if err != nil {
		log.Println("[ORDER] [ERROR] list orders failed:", err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns ErrNotFound both for unknown ids and for orders owned by
// another user.
func (s *OrderStore) GetOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*models.OrderDetail, error) {
	orders, err := s.findDetails(ctx, bson.M{"_id": orderID, "user_id": userID})
	if err != nil {
		log.Println("[ORDER] [ERROR] get order failed:", err)
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return &orders[0], nil
}
