package models

import (
	"strings"
	"time"
)

// Sweet is a catalog product with its stock on hand.
type Sweet struct {
	ID          string    `bson:"_id" json:"_id" dynamodbav:"id"`
	Name        string    `bson:"name" json:"name" dynamodbav:"name"`
	Category    string    `bson:"category" json:"category" dynamodbav:"category"`
	Price       float64   `bson:"price" json:"price" dynamodbav:"price"`
	Quantity    int       `bson:"quantity" json:"quantity" dynamodbav:"quantity"`
	Description string    `bson:"description,omitempty" json:"description,omitempty" dynamodbav:"description,omitempty"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty" dynamodbav:"image,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt" dynamodbav:"updated_at"`
}

// CreateSweetRequest is the body of POST /sweets.
type CreateSweetRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

// UpdateSweetRequest is the body of PUT /sweets/:id. Only non-nil fields change.
type UpdateSweetRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateSweetRequest) IsEmpty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil &&
		r.Quantity == nil && r.Description == nil && r.Image == nil
}

// StockRequest is the body of the purchase and restock endpoints.
type StockRequest struct {
	Quantity int `json:"quantity"`
}

// SweetSearch holds the optional search filters. Nil means unconstrained.
type SweetSearch struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Matches applies the search filters to s. Name and category match as
// case-insensitive substrings and the price range is inclusive.
func (q SweetSearch) Matches(s *Sweet) bool {
	if q.Name != "" && !containsFold(s.Name, q.Name) {
		return false
	}
	if q.Category != "" && !containsFold(s.Category, q.Category) {
		return false
	}
	if q.MinPrice != nil && s.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && s.Price > *q.MaxPrice {
		return false
	}
	return true
}

// ImageUploadRequest is the body of POST /sweets/:id/image-upload-url.
type ImageUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// ImageUploadResponse describes a presigned upload.
type ImageUploadResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	Key       string            `json:"key"`
	PublicURL string            `json:"publicUrl"`
	ExpiresIn int               `json:"expiresIn"`
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
