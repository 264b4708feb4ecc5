package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

type CartService interface {
	ListCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error)
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	UpdateQuantity(ctx context.Context, userID, cartItemID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine, address models.Address, opts store.OrderOptions) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderDetail, error)
	GetOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*models.OrderDetail, error)
}

type Catalog interface {
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type AddressBook interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, address models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error
}

type PaymentInitiator interface {
	CreatePaymentOrder(ctx context.Context, req payment.PaymentOrderRequest) (payment.GatewayOrder, error)
}

type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
	GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
}
