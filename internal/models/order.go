package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"

	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

// Order defines the persisted order document. DeliveryAddress is a copy, so
// later address book edits do not change historical orders.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"userId"`
	OrderNumber       string             `bson:"order_number" json:"orderNumber"`
	Status            string             `bson:"status" json:"status"`
	TotalAmount       float64            `bson:"total_amount" json:"totalAmount"`
	DeliveryAddress   Address            `bson:"delivery_address" json:"deliveryAddress"`
	PaymentMethod     string             `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus     string             `bson:"payment_status" json:"paymentStatus"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	RazorpayPaymentID string             `bson:"razorpay_payment_id,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpayOrderID   string             `bson:"razorpay_order_id,omitempty" json:"razorpayOrderId,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
}

// OrderItem stores the unit price captured when the order was placed.
type OrderItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID    primitive.ObjectID `bson:"order_id" json:"orderId"`
	ProductID  primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	UnitPrice  float64            `bson:"unit_price" json:"unitPrice"`
	TotalPrice float64            `bson:"total_price" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

type OrderItemDetail struct {
	OrderItem `bson:",inline"`
	Product   *ProductSummary `bson:"product,omitempty" json:"product,omitempty"`
}

// OrderDetail is an order joined with its items and their product summaries.
type OrderDetail struct {
	Order `bson:",inline"`
	Items []OrderItemDetail `bson:"items" json:"items"`
}
