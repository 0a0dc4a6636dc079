//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"campus-booking/internal/domain/user"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	svc := jwt.NewService("secret", time.Hour, clk)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, user.RoleReviewer)
	require.NoError(t, err)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, actor.ID)
	assert.Equal(t, user.RoleReviewer, actor.Role)
}

func TestService_Expired(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	svc := jwt.NewService("secret", time.Hour, clk)

	token, err := svc.GenerateToken(uuid.New(), user.RoleRequester)
	require.NoError(t, err)

	clk.Add(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestService_WrongSecret(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	token, err := jwt.NewService("one", time.Hour, clk).GenerateToken(uuid.New(), user.RoleAdmin)
	require.NoError(t, err)

	_, err = jwt.NewService("two", time.Hour, clk).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestService_UnknownRole(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	svc := jwt.NewService("secret", time.Hour, clk)
	token, err := svc.GenerateToken(uuid.New(), user.Role("operator"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
