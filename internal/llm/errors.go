package llm

import (
	"errors"
	"fmt"
)

// ProviderError represents a failed inference call. The status code is
// preserved so callers can distinguish rate limiting from other failures.
type ProviderError struct {
	StatusCode int // 0 when the request never reached the provider
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the provider rejected the call for quota
// reasons and the same request may succeed later.
func (e *ProviderError) RateLimited() bool {
	return e.StatusCode == 429
}

// IsProviderError reports whether err originated in the inference provider.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsRateLimited reports whether err is a provider rate-limit rejection.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.RateLimited()
}
