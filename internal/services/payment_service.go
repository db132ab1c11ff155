package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"patitas/internal/validate"
)

// DeclinedCard is the sentinel number the simulated gateway always
// rejects, giving tests a deterministic failure path.
const DeclinedCard = "4000000000000002"

type PaymentMethod struct {
	ID              string `json:"id"`
	Nombre          string `json:"nombre"`
	RequiereTarjeta bool   `json:"requiereTarjeta"`
}

var paymentMethods = []PaymentMethod{
	{ID: "tarjeta_credito", Nombre: "Tarjeta de crédito", RequiereTarjeta: true},
	{ID: "tarjeta_debito", Nombre: "Tarjeta de débito", RequiereTarjeta: true},
	{ID: "transferencia", Nombre: "Transferencia bancaria"},
	{ID: "efectivo", Nombre: "Efectivo contra entrega"},
}

type PaymentService struct {
	// Delay simulates gateway latency; zero in tests.
	Delay time.Duration
}

func (s *PaymentService) Methods() []PaymentMethod {
	return paymentMethods
}

func (s *PaymentService) methodByID(id string) (PaymentMethod, bool) {
	for _, m := range paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

type PaymentResult struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

// Charge simulates the gateway: validates the method, requires a card
// number for card methods, declines the sentinel card, and otherwise
// returns a synthetic transaction id. The delay is server-side and not
// cancellable mid-flight.
func (s *PaymentService) Charge(methodID, cardNumber string, amount decimal.Decimal) (PaymentResult, error) {
	m, ok := s.methodByID(methodID)
	if !ok {
		return PaymentResult{}, &ValidationError{Field: "paymentMethod", Msg: "unknown payment method"}
	}

	if m.RequiereTarjeta {
		card, ok := validate.CardNumber(cardNumber)
		if !ok {
			return PaymentResult{}, &ValidationError{Field: "cardNumber", Msg: "card number required"}
		}
		if card == DeclinedCard {
			if s.Delay > 0 {
				time.Sleep(s.Delay)
			}
			return PaymentResult{}, &PaymentDeclinedError{Method: methodID, Reason: "card declined by issuer"}
		}
	}

	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}

	txID := "tx-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	return PaymentResult{TransactionID: txID, Amount: amount.Round(2)}, nil
}
