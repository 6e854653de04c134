package usecase

import (
	"context"
	"math/rand"
	"strconv"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
)

const (
	numberTimeLayout = "20060102150405"
	// Concurrent submissions in the same second by users whose suffix
	// collides can produce duplicate numbers, so allocation is a bounded
	// retry loop rather than a single guess.
	maxNumberAttempts = 5
	entropyDigits     = 6
)

// allocateNumber builds a human-readable order number from the current
// timestamp and a suffix derived from the user id, verifying uniqueness
// against the repository. Colliding attempts append random digits.
func (u *OrderUseCase) allocateNumber(ctx context.Context, userID int64) (string, error) {
	base := u.now().Format(numberTimeLayout) + userSuffix(userID)

	candidate := base
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		exists, err := u.orders.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + randomDigits(entropyDigits)
	}
	return "", domainErrors.ErrOrderNumberExhausted
}

// userSuffix returns the last four digits of the user id, or the whole id
// when shorter.
func userSuffix(userID int64) string {
	s := strconv.FormatInt(userID, 10)
	if len(s) > 4 {
		return s[len(s)-4:]
	}
	return s
}

func randomDigits(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('0' + rand.Intn(10))
	}
	return string(buf)
}
