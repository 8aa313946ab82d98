package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/platform/httpx"
)

// CustomerSource is the read-only view of the customer store login needs.
type CustomerSource interface {
	List(ctx context.Context, activeOnly bool) ([]customers.Customer, error)
}

// LoginResult is the success payload returned to an authenticated customer.
type LoginResult struct {
	CustomerID int64   `json:"customer_id"`
	Name       string  `json:"name"`
	Due        float64 `json:"due"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
}

// Service validates customer credentials and records sign-ins.
type Service struct {
	source    CustomerSource
	authority *Authority
	trail     *audit.Trail
}

// NewService constructs the login service.
func NewService(source CustomerSource, authority *Authority, trail *audit.Trail) *Service {
	return &Service{source: source, authority: authority, trail: trail}
}

// Login matches the first active customer whose trimmed username equals the
// trimmed input and verifies the password. Matching is case-sensitive.
// Every failure collapses into ErrUnauthorized so callers cannot distinguish
// an unknown user from a wrong password.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	active, err := s.source.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("auth: list customers: %w", err)
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	for _, c := range active {
		if strings.TrimSpace(c.Username) != username {
			continue
		}
		if !s.authority.Verify(strings.TrimSpace(c.PasswordHash), password) {
			break
		}
		if err := s.trail.SignIns.Append(ctx, audit.SignInRecord{
			Timestamp:  time.Now(),
			CustomerID: c.ID,
			Username:   username,
			Name:       c.Name,
			LoginType:  "customer",
		}); err != nil {
			return nil, fmt.Errorf("auth: record sign-in: %w", err)
		}
		return &LoginResult{
			CustomerID: c.ID,
			Name:       c.Name,
			Due:        c.Due,
			Email:      c.Email,
			Phone:      c.Phone,
		}, nil
	}
	return nil, httpx.ErrUnauthorized
}
