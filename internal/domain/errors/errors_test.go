package errors_test

import (
	stderrors "errors"
	"testing"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

func TestDomainError_Error(t *testing.T) {
	e := domainErrors.NewDomainError("cart_unavailable", "could not reach cart service", domainErrors.ErrCartUnavailable)
	if e.Error() != "could not reach cart service: cart service unavailable" {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

func TestDomainError_ErrorWithoutWrapped(t *testing.T) {
	e := domainErrors.NewDomainError("persist_failed", "ledger write failed", nil)
	if e.Error() != "ledger write failed" {
		t.Errorf("unexpected message: %s", e.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	e := domainErrors.NewDomainError("payment_unavailable", "payment call failed", domainErrors.ErrPaymentUnavailable)
	if !stderrors.Is(e, domainErrors.ErrPaymentUnavailable) {
		t.Error("expected errors.Is to match wrapped sentinel")
	}
}

func TestValidationError_Error(t *testing.T) {
	e := domainErrors.NewValidationError("user_id", "cannot be empty")
	want := "validation failed for field user_id: cannot be empty"
	if e.Error() != want {
		t.Errorf("got %q, want %q", e.Error(), want)
	}
}

func TestValidationError_As(t *testing.T) {
	var target *domainErrors.ValidationError
	err := error(domainErrors.NewValidationError("payment_method", "required"))
	if !stderrors.As(err, &target) {
		t.Fatal("expected errors.As to match ValidationError")
	}
	if target.Field != "payment_method" {
		t.Errorf("unexpected field: %s", target.Field)
	}
}
