package orders

import "time"

type Order struct {
	ID            string           `json:"_id"`
	UserID        string           `json:"user"`
	ShippingInfo  ShippingSnapshot `json:"shippingInfo"`
	Items         []OrderItem      `json:"orderItems"`
	PaymentInfo   PaymentSnapshot  `json:"paymentInfo"`
	ItemsPrice    float64          `json:"itemsPrice"`
	TaxPrice      float64          `json:"taxPrice"`
	ShippingPrice float64          `json:"shippingPrice"`
	TotalPrice    float64          `json:"totalPrice"`
	Status        Status           `json:"orderStatus"`
	PaidAt        time.Time        `json:"paidAt"`
	DeliveredAt   *time.Time       `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// ShippingSnapshot is copied onto the order at creation; later edits to the
// user's saved addresses never rewrite history.
type ShippingSnapshot struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PinCode string `json:"pinCode"`
	PhoneNo string `json:"phoneNo"`
}

type PaymentSnapshot struct {
	PaymentID string `json:"id"`
	Status    string `json:"status"`
}
