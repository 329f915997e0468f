package usecase

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultVerifyMaxAttempts = 5
	defaultVerifyWindow      = 5 * time.Minute
)

func verifyAttemptsKey(ownerID, accountID int64) string {
	return fmt.Sprintf("otp_verify_attempts:%d:%d", ownerID, accountID)
}

// verifyPolicy is read on every call so a reloaded config applies at once.
func (s *Usecase) verifyPolicy() (maxAttempts int64, window time.Duration) {
	maxAttempts = s.cfg.GetInt64("modules.authenticator.verify.max_attempts")
	if maxAttempts <= 0 {
		maxAttempts = defaultVerifyMaxAttempts
	}

	window = s.cfg.GetDuration("modules.authenticator.verify.window")
	if window <= 0 {
		window = defaultVerifyWindow
	}

	return maxAttempts, window
}

// countVerifyAttempt records one attempt and reports whether the caller is
// still within the allowed number of attempts.
func (s *Usecase) countVerifyAttempt(ctx context.Context, ownerID, accountID int64) (bool, error) {
	maxAttempts, window := s.verifyPolicy()

	attempts, err := s.throttle.Increment(ctx, verifyAttemptsKey(ownerID, accountID), 1, window)
	if err != nil {
		return false, err
	}

	return attempts <= maxAttempts, nil
}
