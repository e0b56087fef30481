package models

import "time"

type Cart struct {
	UserID    string      `json:"userId"`
	Items     []OrderItem `json:"items"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type SaveCartRequest struct {
	Items []OrderItem `json:"items"`
}

type Wishlist struct {
	UserID   string   `json:"userId"`
	SweetIDs []string `json:"sweetIds"`
}
