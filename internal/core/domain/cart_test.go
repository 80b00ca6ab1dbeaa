package domain

import "testing"

func discounted(v float64) *float64 { return &v }

func TestCart_Total_UsesDiscountWhenPresent(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "p1", Price: 10, Quantity: 2},
		{ProductID: "p2", Price: 20, DiscountPrice: discounted(15), Quantity: 3},
	}}

	// 10*2 + 15*3
	if got := cart.Total(); got != 65 {
		t.Fatalf("total = %v, want 65", got)
	}
	if got := cart.Count(); got != 5 {
		t.Fatalf("count = %d, want 5", got)
	}
}

func TestCart_Total_Empty(t *testing.T) {
	cart := &Cart{}
	if got := cart.Total(); got != 0 {
		t.Fatalf("empty cart total = %v, want 0", got)
	}
}

func TestCart_Remove(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}}

	cart.Remove("p1")
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("unexpected items after remove: %+v", cart.Items)
	}

	// removing an absent product is a no-op
	cart.Remove("p1")
	if len(cart.Items) != 1 {
		t.Fatalf("remove of absent product changed the cart: %+v", cart.Items)
	}
}

func TestCartItem_UnitPrice(t *testing.T) {
	it := CartItem{Price: 30}
	if it.UnitPrice() != 30 {
		t.Fatalf("unit price = %v, want 30", it.UnitPrice())
	}
	it.DiscountPrice = discounted(22.5)
	if it.UnitPrice() != 22.5 {
		t.Fatalf("unit price = %v, want 22.5", it.UnitPrice())
	}
}
