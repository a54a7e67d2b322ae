package models

import "time"

// Client is an end customer, distinct from a platform User.
type Client struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Gender      string      `json:"gender,omitempty"`
	Birthday    string      `json:"birthday,omitempty"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description,omitempty"`
	OrderCount  int         `json:"order_count"`
	CreatedBy   *OrderParty `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
