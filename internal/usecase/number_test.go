package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
)

func TestUserSuffix(t *testing.T) {
	cases := []struct {
		userID int64
		want   string
	}{
		{7, "7"},
		{42, "42"},
		{1234, "1234"},
		{987654, "7654"},
	}
	for _, tc := range cases {
		if got := userSuffix(tc.userID); got != tc.want {
			t.Fatalf("userSuffix(%d) = %q, want %q", tc.userID, got, tc.want)
		}
	}
}

func TestAllocateNumberFirstAttempt(t *testing.T) {
	f := newOrderUseCaseFixture()
	f.orders.ExistsByNumberFn = func(context.Context, string) (bool, error) { return false, nil }

	number, err := f.uc.allocateNumber(context.Background(), 987654)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testNow.Format(numberTimeLayout) + "7654"
	if number != want {
		t.Fatalf("unexpected number %q, want %q", number, want)
	}
}

func TestAllocateNumberRetriesWithEntropy(t *testing.T) {
	f := newOrderUseCaseFixture()
	base := testNow.Format(numberTimeLayout) + "7"
	var seen []string
	f.orders.ExistsByNumberFn = func(_ context.Context, candidate string) (bool, error) {
		seen = append(seen, candidate)
		return len(seen) == 1, nil
	}

	number, err := f.uc.allocateNumber(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected two attempts, got %d", len(seen))
	}
	if seen[0] != base {
		t.Fatalf("first candidate must be the plain base, got %q", seen[0])
	}
	if !strings.HasPrefix(number, base) || len(number) != len(base)+entropyDigits {
		t.Fatalf("retry candidate %q must extend %q with %d digits", number, base, entropyDigits)
	}
	for _, r := range number[len(base):] {
		if r < '0' || r > '9' {
			t.Fatalf("entropy suffix must be numeric, got %q", number)
		}
	}
}

func TestAllocateNumberExhaustsRetries(t *testing.T) {
	f := newOrderUseCaseFixture()
	calls := 0
	f.orders.ExistsByNumberFn = func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := f.uc.allocateNumber(context.Background(), 7)
	if !errors.Is(err, domainErrors.ErrOrderNumberExhausted) {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if calls != maxNumberAttempts {
		t.Fatalf("expected %d attempts, got %d", maxNumberAttempts, calls)
	}
}

func TestAllocateNumberPropagatesRepositoryError(t *testing.T) {
	f := newOrderUseCaseFixture()
	boom := errors.New("boom")
	f.orders.ExistsByNumberFn = func(context.Context, string) (bool, error) { return false, boom }

	if _, err := f.uc.allocateNumber(context.Background(), 7); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
