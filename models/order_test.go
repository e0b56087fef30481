package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{"placed to confirmed", OrderStatusPlaced, OrderStatusConfirmed, false},
		{"placed to shipped skips ahead", OrderStatusPlaced, OrderStatusShipped, false},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, false},
		{"same status", OrderStatusConfirmed, OrderStatusConfirmed, true},
		{"backward", OrderStatusShipped, OrderStatusConfirmed, true},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusShipped, true},
		{"cancel placed", OrderStatusPlaced, OrderStatusCancelled, false},
		{"cancel confirmed", OrderStatusConfirmed, OrderStatusCancelled, false},
		{"cancel shipped", OrderStatusShipped, OrderStatusCancelled, true},
		{"cancel delivered", OrderStatusDelivered, OrderStatusCancelled, true},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusDelivered, true},
		{"cancelled to placed", OrderStatusCancelled, OrderStatusPlaced, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransition_NeverDecreasesRank(t *testing.T) {
	forward := []OrderStatus{OrderStatusPlaced, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered}
	for i, from := range forward {
		for j, to := range forward {
			err := ValidateTransition(from, to)
			if j > i {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.True(t, OrderStatusDelivered.IsValid())
	assert.False(t, OrderStatus("returned").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrder_Subtotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{SweetID: "a", Price: 20, Quantity: 3},
		{SweetID: "b", Price: 40, Quantity: 1},
	}}
	assert.InDelta(t, 100.0, o.Subtotal(), 0.0001)
}

func TestSweetSearch_Matches(t *testing.T) {
	ladoo := &Sweet{Name: "Besan Ladoo", Category: "Indian", Price: 20}
	minP, maxP := 10.0, 20.0
	tooHigh := 19.99

	assert.True(t, SweetSearch{}.Matches(ladoo))
	assert.True(t, SweetSearch{Name: "ladoo"}.Matches(ladoo))
	assert.True(t, SweetSearch{Category: "IND"}.Matches(ladoo))
	assert.False(t, SweetSearch{Name: "barfi"}.Matches(ladoo))
	assert.True(t, SweetSearch{MinPrice: &minP, MaxPrice: &maxP}.Matches(ladoo), "range is inclusive")
	assert.False(t, SweetSearch{MaxPrice: &tooHigh}.Matches(ladoo))
}

func TestUpdateSweetRequest_IsEmpty(t *testing.T) {
	assert.True(t, (&UpdateSweetRequest{}).IsEmpty())
	price := 1.5
	assert.False(t, (&UpdateSweetRequest{Price: &price}).IsEmpty())
}
