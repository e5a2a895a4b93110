package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "waterlife-backoffice", time.Hour)
	id := uuid.New()

	token, exp, err := m.GenerateToken(id, "ana@example.com", "Ana", "CLIENT")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "CLIENT", claims.Role)
	assert.Equal(t, "Ana", claims.Name)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", "waterlife-backoffice", time.Hour)
	token, _, err := m.GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN")
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := m.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewManager("other", "waterlife-backoffice", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		_, err := NewManager("secret", "someone-else", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager("secret", "waterlife-backoffice", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
