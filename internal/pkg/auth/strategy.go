package auth

import (
	"time"

	"github.com/mealflow/mealflow/internal/domain/model"
)

type Strategy interface {
	IssueToken(userID int64, role model.UserRole) (string, error)
	ParseToken(token string) (int64, model.UserRole, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
