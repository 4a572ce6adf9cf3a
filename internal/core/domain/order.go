package domain

import "time"

// OrderItem is one purchased product line.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order records a completed checkout.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	SessionID   string      `json:"session_id"`
	CreatedAt   time.Time   `json:"created_at"`
}
