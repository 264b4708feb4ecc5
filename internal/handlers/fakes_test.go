package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

type fakeCart struct {
	lines   []models.CartLine
	listErr error
	added   []int
	updated map[primitive.ObjectID]int
	cleared bool
}

func (f *fakeCart) ListCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartLine, error) {
	return f.lines, f.listErr
}

func (f *fakeCart) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	f.added = append(f.added, quantity)
	return nil
}

func (f *fakeCart) UpdateQuantity(ctx context.Context, userID, cartItemID primitive.ObjectID, quantity int) error {
	if f.updated == nil {
		f.updated = map[primitive.ObjectID]int{}
	}
	f.updated[cartItemID] = quantity
	return nil
}

func (f *fakeCart) RemoveItem(ctx context.Context, userID, cartItemID primitive.ObjectID) error {
	return nil
}

func (f *fakeCart) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	f.cleared = true
	return nil
}

type fakeOrders struct {
	created  *store.OrderOptions
	address  models.Address
	orders   map[primitive.ObjectID]models.OrderDetail
	createFn func(lines []models.CartLine) (*models.Order, error)
}

func (f *fakeOrders) CreateOrder(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine, address models.Address, opts store.OrderOptions) (*models.Order, error) {
	f.created = &opts
	f.address = address
	if f.createFn != nil {
		return f.createFn(lines)
	}
	return &models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		OrderNumber:     "NVS1",
		TotalAmount:     store.CartTotal(lines),
		PaymentMethod:   opts.PaymentMethod,
		RazorpayOrderID: opts.RazorpayOrderID,
	}, nil
}

func (f *fakeOrders) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderDetail, error) {
	list := make([]models.OrderDetail, 0)
	for _, order := range f.orders {
		if order.UserID == userID {
			list = append(list, order)
		}
	}
	return list, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*models.OrderDetail, error) {
	order, ok := f.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &order, nil
}

type fakeCatalog struct {
	products map[primitive.ObjectID]models.Product
	filter   store.ProductFilter
}

func (f *fakeCatalog) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	f.filter = filter
	list := make([]models.Product, 0, len(f.products))
	for _, product := range f.products {
		list = append(list, product)
	}
	return list, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{}, nil
}

type fakeAddressBook struct {
	profile *models.Profile
}

func (f *fakeAddressBook) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	if f.profile == nil {
		return nil, store.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeAddressBook) AddAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) (*models.Address, error) {
	if f.profile == nil {
		return nil, store.ErrNotFound
	}
	address.ID = "addr-new"
	f.profile.Addresses = append(f.profile.Addresses, address)
	return &address, nil
}

func (f *fakeAddressBook) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, address models.Address) (*models.Address, error) {
	return nil, store.ErrNotFound
}

func (f *fakeAddressBook) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	return store.ErrNotFound
}

type fakePayments struct {
	requests []payment.PaymentOrderRequest
	err      error
}

func (f *fakePayments) CreatePaymentOrder(ctx context.Context, req payment.PaymentOrderRequest) (payment.GatewayOrder, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return payment.GatewayOrder{
		"id":       "order_gw_1",
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"status":   "created",
		"key_id":   "rzp_test_key",
	}, nil
}

type fakeAuth struct {
	session  *auth.Session
	err      error
	user     *models.User
	profile  *models.Profile
	tokenArg string
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, fullName string) (*auth.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) SignOut(ctx context.Context, refreshToken string) error {
	f.tokenArg = refreshToken
	return f.err
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	f.tokenArg = refreshToken
	return f.session, f.err
}

func (f *fakeAuth) GetCurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	f.tokenArg = accessToken
	return f.user, f.err
}

func (f *fakeAuth) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	if f.profile == nil {
		return nil, store.ErrNotFound
	}
	return f.profile, nil
}

// testRouter stands in for UserAuth by setting the user id directly.
func testRouter(userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if !userID.IsZero() {
			c.Set("userId", userID)
			c.Set("accessToken", "access-token")
		}
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func cartLine(price float64, quantity int) models.CartLine {
	productID := primitive.NewObjectID()
	return models.CartLine{
		CartItem: models.CartItem{ID: primitive.NewObjectID(), ProductID: productID, Quantity: quantity},
		Product:  &models.Product{ID: productID, Name: "Toor Dal", Price: price, Unit: "kg"},
	}
}
