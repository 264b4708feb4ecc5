// Package payment asks the payment gateway for payable orders. Nothing is
// stored locally; callers correlate the gateway order id with their own order.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "INR"

var (
	ErrGateway       = errors.New("payment gateway error")
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")
)

type PaymentOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayOrder is the gateway's order object plus the key_id the client SDK
// needs to open the checkout.
type GatewayOrder map[string]interface{}

func (o GatewayOrder) ID() string {
	id, _ := o["id"].(string)
	return id
}

func (o GatewayOrder) KeyID() string {
	id, _ := o["key_id"].(string)
	return id
}

type Initiator struct {
	gateway Gateway
	keyID   string
}

func NewInitiator(gateway Gateway, keyID string) *Initiator {
	return &Initiator{gateway: gateway, keyID: keyID}
}

// CreatePaymentOrder makes a single gateway call; failures are not retried.
func (i *Initiator) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (GatewayOrder, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := i.gateway.CreateOrder(map[string]interface{}{
		"amount":   req.Amount,
		"currency": currency,
		"receipt":  req.Receipt,
	})
	if err != nil {
		log.Println("[PAYMENT] [ERROR] create gateway order failed:", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	order := make(GatewayOrder, len(body)+1)
	for key, value := range body {
		order[key] = value
	}
	order["key_id"] = i.keyID

	log.Println("[PAYMENT] [INFO] gateway order created:", order.ID())
	return order, nil
}

// MinorUnits converts an amount in major units (rupees) to the smallest
// currency unit (paise), rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
