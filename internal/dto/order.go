package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Plan        string          `json:"plan"`
	WordPress   bool            `json:"wordpress"`
	Duration    int             `json:"duration"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsPaid      bool            `json:"is_paid"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateOrderRequest is the intake form payload.
type CreateOrderRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	WordPress bool   `json:"wordpress"`
	Duration  int    `json:"duration"`
}

// QuoteRequest asks for the total of a not-yet-submitted order.
type QuoteRequest struct {
	Plan      string `json:"plan"`
	WordPress bool   `json:"wordpress"`
	Duration  int    `json:"duration"`
}

// QuoteResponse carries the recomputed display total.
type QuoteResponse struct {
	Plan        string          `json:"plan"`
	WordPress   bool            `json:"wordpress"`
	Duration    int             `json:"duration"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PaymentInstructions tells the customer how to settle an order manually.
type PaymentInstructions struct {
	Link        string `json:"link,omitempty"`
	Note        string `json:"note"`
	OrderNumber string `json:"order_number"`
}

// OrderConfirmation is returned after a successful intake submission.
type OrderConfirmation struct {
	Order   OrderResponse       `json:"order"`
	Payment PaymentInstructions `json:"payment"`
}

// OrderStats aggregates dashboard counters.
type OrderStats struct {
	Total   int             `json:"total"`
	Paid    int             `json:"paid"`
	Pending int             `json:"pending"`
	Revenue decimal.Decimal `json:"revenue"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned on a successful admin login.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// StatusEmailRequest triggers a status broadcast to paying customers.
type StatusEmailRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BroadcastResponse reports per-recipient broadcast outcomes.
type BroadcastResponse struct {
	Successful  int    `json:"successful"`
	Failed      int    `json:"failed"`
	TotalEmails int    `json:"totalEmails"`
	Message     string `json:"message,omitempty"`
}

// NewOrderNotification is the notify-new-order function payload.
type NewOrderNotification struct {
	OrderNumber string          `json:"orderNumber"`
	FullName    string          `json:"fullName"`
	Email       string          `json:"email"`
	Plan        string          `json:"plan"`
	WordPress   bool            `json:"wordpress"`
	Duration    int             `json:"duration"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
