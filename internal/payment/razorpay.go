package payment

import (
	"context"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// Intent is the gateway order the storefront completes the payment against.
type Intent struct {
	OrderRef string `json:"id"`
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
}

// Gateway creates payment intents; the core calls it as a black box.
type Gateway interface {
	CreateIntent(ctx context.Context, amount float64, receipt string) (Intent, error)
}

// Razorpay is a process-lifetime client, constructed once in main.
type Razorpay struct {
	KeyID  string
	client *razorpay.Client
}

func NewRazorpay(keyID, secret string) *Razorpay {
	return &Razorpay{KeyID: keyID, client: razorpay.NewClient(keyID, secret)}
}

// CreateIntent opens a gateway order for amount (major units, INR).
func (r *Razorpay) CreateIntent(_ context.Context, amount float64, receipt string) (Intent, error) {
	paise := toPaise(amount)
	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return Intent{}, apperr.Wrap(apperr.Upstream, "payment gateway rejected the order", err)
	}
	ref, _ := body["id"].(string)
	return Intent{OrderRef: ref, Amount: paise, Currency: "INR"}, nil
}

// toPaise converts major units to the smallest unit without the float
// truncation that makes 1999.99 * 100 land on 199998.
func toPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
