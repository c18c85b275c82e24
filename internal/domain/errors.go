package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUnknownPlan           = errors.New("unknown plan")
	ErrInvalidOption         = errors.New("invalid option")
	ErrMessageLimitExceeded  = errors.New("daily message limit exceeded")
	ErrTokenLimitExceeded    = errors.New("daily token limit exceeded")
	ErrCompletionUnavailable = errors.New("completion service unavailable")
)

// IsQuotaExceeded reports whether err is one of the expected daily-limit
// denials. These are user-visible outcomes, not faults.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrMessageLimitExceeded) || errors.Is(err, ErrTokenLimitExceeded)
}
