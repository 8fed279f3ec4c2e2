package orders

import (
	"github.com/shopspring/decimal"

	"github.com/habuli/go-shop-backend.git/internal/catalog"
)

// Cart pricing mirrors the storefront checkout maths: 5% tax on goods, a flat
// 200 shipping charge per item priced at 1000 or below, every figure rounded
// up to a whole unit.

var (
	taxRate      = decimal.RequireFromString("0.05")
	shippingFlat = decimal.NewFromInt(200)
	freeShipOver = decimal.NewFromInt(1000)
)

type CartItem struct {
	ProductID string `json:"_id"`
	Quantity  int    `json:"quantity"`
}

type PriceBreakdown struct {
	ItemsPrice      float64 `json:"itemsPrice"`
	TaxPrice        float64 `json:"taxPrice"`
	ShippingCharges float64 `json:"shippingCharges"`
	TotalAmount     float64 `json:"totalAmount"`
}

// PriceCart prices the given products against the cart quantities. A product
// missing from the cart, or carrying a non-positive quantity, counts as one
// unit.
func PriceCart(products []catalog.Product, items []CartItem) PriceBreakdown {
	qty := make(map[string]int, len(items))
	for _, it := range items {
		qty[it.ProductID] = it.Quantity
	}

	goods := decimal.Zero
	shipping := decimal.Zero
	for _, p := range products {
		n := qty[p.ID]
		if n <= 0 {
			n = 1
		}
		price := decimal.NewFromFloat(p.Price)
		goods = goods.Add(price.Mul(decimal.NewFromInt(int64(n))))
		if !price.GreaterThan(freeShipOver) {
			shipping = shipping.Add(shippingFlat)
		}
	}

	itemsPrice := goods.Ceil()
	taxPrice := goods.Mul(taxRate).Ceil()
	shippingCharges := shipping.Ceil()
	total := itemsPrice.Add(taxPrice).Add(shippingCharges).Ceil()

	return PriceBreakdown{
		ItemsPrice:      itemsPrice.InexactFloat64(),
		TaxPrice:        taxPrice.InexactFloat64(),
		ShippingCharges: shippingCharges.InexactFloat64(),
		TotalAmount:     total.InexactFloat64(),
	}
}
