package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/habuli/go-shop-backend.git/internal/catalog"
)

func TestPriceCart(t *testing.T) {
	products := []catalog.Product{
		{ID: "phone", Price: 1200},
		{ID: "case", Price: 299.50},
	}
	items := []CartItem{
		{ProductID: "phone", Quantity: 1},
		{ProductID: "case", Quantity: 2},
	}

	got := PriceCart(products, items)

	// goods = 1200 + 2*299.50 = 1799, tax = ceil(89.95) = 90,
	// shipping only for the case (price <= 1000)
	assert.Equal(t, PriceBreakdown{
		ItemsPrice:      1799,
		TaxPrice:        90,
		ShippingCharges: 200,
		TotalAmount:     2089,
	}, got)
}

func TestPriceCartDefaultsQuantityToOne(t *testing.T) {
	products := []catalog.Product{{ID: "phone", Price: 1200}}

	for _, items := range [][]CartItem{
		nil,
		{{ProductID: "phone", Quantity: 0}},
		{{ProductID: "phone", Quantity: -3}},
	} {
		got := PriceCart(products, items)
		assert.Equal(t, 1200.0, got.ItemsPrice)
		assert.Equal(t, 60.0, got.TaxPrice)
		assert.Equal(t, 0.0, got.ShippingCharges)
		assert.Equal(t, 1260.0, got.TotalAmount)
	}
}

func TestPriceCartRoundsEveryFigureUp(t *testing.T) {
	products := []catalog.Product{{ID: "pen", Price: 10.10}}

	got := PriceCart(products, []CartItem{{ProductID: "pen", Quantity: 1}})

	assert.Equal(t, 11.0, got.ItemsPrice)       // ceil(10.10)
	assert.Equal(t, 1.0, got.TaxPrice)          // ceil(0.505)
	assert.Equal(t, 200.0, got.ShippingCharges) // cheap item ships flat
	assert.Equal(t, 212.0, got.TotalAmount)
}

func TestPriceCartBoundaryShipping(t *testing.T) {
	// exactly 1000 still pays shipping; anything above does not
	at := PriceCart([]catalog.Product{{ID: "a", Price: 1000}}, nil)
	assert.Equal(t, 200.0, at.ShippingCharges)

	above := PriceCart([]catalog.Product{{ID: "b", Price: 1000.01}}, nil)
	assert.Equal(t, 0.0, above.ShippingCharges)
}

func TestPriceCartEmpty(t *testing.T) {
	got := PriceCart(nil, nil)
	assert.Equal(t, PriceBreakdown{}, got)
}
