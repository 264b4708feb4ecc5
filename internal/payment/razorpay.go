package payment

import (
	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway is the order-creation call of a hosted payment provider.
type Gateway interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.Order.Create(data, nil)
}
