package auth

import (
	"context"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/customers"
	"github.com/duetrack/duetrack/internal/platform/httpx"
)

type stubSource struct {
	customers []customers.Customer
}

func (s stubSource) List(ctx context.Context, activeOnly bool) ([]customers.Customer, error) {
	return s.customers, nil
}

func TestGenerateCredentialShape(t *testing.T) {
	authority := NewAuthority()

	username, password := authority.Generate("Jane O'Doe-42")
	require.Equal(t, "janeodoe42", username)
	require.True(t, len(password) >= 4)
	require.Equal(t, "JaneO'Doe-42", password[:len(password)-4])
	for _, r := range password[len(password)-4:] {
		require.True(t, unicode.IsDigit(r))
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	authority := NewAuthority()

	hash, err := authority.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, authority.Verify(hash, "s3cret"))
	require.False(t, authority.Verify(hash, "wrong"))
}

func loginFixture(t *testing.T) (*Service, *audit.Trail) {
	t.Helper()
	authority := NewAuthority()
	hash, err := authority.Hash("s3cret")
	require.NoError(t, err)

	source := stubSource{customers: []customers.Customer{
		{
			ID:           1,
			Name:         "Jane Doe",
			Username:     "janedoe",
			PasswordHash: hash,
			Due:          350,
			Email:        "jane@example.com",
			Phone:        "9000000000",
			Status:       customers.StatusActive,
		},
	}}
	trail := audit.NewMemoryTrail()
	return NewService(source, authority, trail), trail
}

func TestLoginSuccessRecordsSignIn(t *testing.T) {
	service, trail := loginFixture(t)
	ctx := context.Background()

	result, err := service.Login(ctx, "janedoe", "s3cret")
	require.NoError(t, err)
	require.Equal(t, int64(1), result.CustomerID)
	require.Equal(t, 350.0, result.Due)

	signIns, err := trail.SignIns.Load(ctx)
	require.NoError(t, err)
	require.Len(t, signIns, 1)
	require.Equal(t, "janedoe", signIns[0].Username)
	require.Equal(t, "customer", signIns[0].LoginType)
}

func TestLoginTrimsInput(t *testing.T) {
	service, _ := loginFixture(t)

	result, err := service.Login(context.Background(), "  janedoe  ", " s3cret ")
	require.NoError(t, err)
	require.Equal(t, int64(1), result.CustomerID)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	service, trail := loginFixture(t)
	ctx := context.Background()

	_, err := service.Login(ctx, "janedoe", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = service.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	signIns, loadErr := trail.SignIns.Load(ctx)
	require.NoError(t, loadErr)
	require.Empty(t, signIns)
}

func TestLoginIsCaseSensitive(t *testing.T) {
	service, _ := loginFixture(t)

	_, err := service.Login(context.Background(), "JaneDoe", "s3cret")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}
