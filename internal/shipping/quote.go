package shipping

import (
	"errors"
	"sort"
	"time"
)

// Request describes the package to quote. Dimensions are optional and
// default to 10.
type Request struct {
	PostalCode string  `json:"postalCode"`
	Weight     float64 `json:"weight"`
	Length     float64 `json:"length,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
}

// Rate is one carrier quote.
type Rate struct {
	Carrier           string    `json:"carrier"`
	Service           string    `json:"service"`
	Amount            float64   `json:"amount"`
	EstimatedDelivery time.Time `json:"estimatedDeliveryDate"`
}

var (
	ErrMissingPostalCode = errors.New("postal code is required")
	ErrInvalidWeight     = errors.New("weight must be greater than zero")
)

const (
	baseRatePerPound = 0.5
	defaultDimension = 10
)

// Calculator produces carrier rate quotes. Stateless apart from the
// injected clock used for delivery estimates.
type Calculator struct {
	nowFunc func() time.Time
}

func NewCalculator() *Calculator {
	return &Calculator{nowFunc: time.Now}
}

// Calculate returns the available carrier rates for the package, cheapest
// first. Pure: no persisted state, no external calls.
func (c *Calculator) Calculate(req Request) ([]Rate, error) {
	if req.PostalCode == "" {
		return nil, ErrMissingPostalCode
	}
	if req.Weight <= 0 {
		return nil, ErrInvalidWeight
	}

	if req.Length <= 0 {
		req.Length = defaultDimension
	}
	if req.Width <= 0 {
		req.Width = defaultDimension
	}
	if req.Height <= 0 {
		req.Height = defaultDimension
	}

	now := c.nowFunc()
	base := req.Weight * baseRatePerPound

	rates := []Rate{
		{
			Carrier:           "FedEx",
			Service:           "Standard",
			Amount:            base + 5.99,
			EstimatedDelivery: now.Add(3 * 24 * time.Hour),
		},
		{
			Carrier:           "UPS",
			Service:           "Express",
			Amount:            base + 8.99,
			EstimatedDelivery: now.Add(2 * 24 * time.Hour),
		},
	}

	sort.Slice(rates, func(i, j int) bool { return rates[i].Amount < rates[j].Amount })
	return rates, nil
}
