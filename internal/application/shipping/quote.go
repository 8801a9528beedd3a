package shipping

import (
	"context"
	"strings"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

// Option is one way of delivering to a postal code.
type Option struct {
	Method       string
	DeliveryDays int
	PriceCents   int64
}

// QuoteUseCase computes delivery options for a Brazilian postal code (CEP).
// The tier table is static; carrier integration would replace it.
type QuoteUseCase struct{}

// NewQuoteUseCase creates a new QuoteUseCase.
func NewQuoteUseCase() *QuoteUseCase {
	return &QuoteUseCase{}
}

// Quote returns delivery options for the postal code, cheapest tier rules:
// local region gets same/next-day couriers, the metro area gets standard
// carriers, everywhere else a single slow option.
func (uc *QuoteUseCase) Quote(_ context.Context, postalCode string) ([]Option, error) {
	cep := normalizePostalCode(postalCode)
	if !validPostalCode(cep) {
		return nil, domainErrors.NewDomainError(
			"invalid_postal_code",
			"postal code must contain 8 digits",
			domainErrors.ErrInvalidPostalCode,
		)
	}

	var options []Option
	switch {
	case strings.HasPrefix(cep, "57"):
		options = []Option{
			{Method: "SEDEX Local", DeliveryDays: 1, PriceCents: 1500},
			{Method: "Courier Delivery", DeliveryDays: 0, PriceCents: 2500},
		}
	case strings.HasPrefix(cep, "01"):
		options = []Option{
			{Method: "PAC", DeliveryDays: 7, PriceCents: 3050},
			{Method: "SEDEX", DeliveryDays: 3, PriceCents: 5500},
		}
	default:
		options = []Option{
			{Method: "Standard PAC", DeliveryDays: 10, PriceCents: 2800},
		}
	}

	if len(options) == 0 {
		return nil, domainErrors.ErrNoShippingOptions
	}
	return options, nil
}

func normalizePostalCode(raw string) string {
	cep := strings.ReplaceAll(raw, "-", "")
	return strings.TrimSpace(cep)
}

func validPostalCode(cep string) bool {
	if len(cep) != 8 {
		return false
	}
	for _, r := range cep {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
