package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("secret", time.Hour)
	require.NoError(t, err)

	id := uuid.New()
	token, err := s.Issue(id)
	require.NoError(t, err)

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, s.Authorize(token, id))
	assert.ErrorIs(t, s.Authorize(token, uuid.New()), ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a, err := NewSigner("alpha", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner("bravo", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue(uuid.New())
	require.NoError(t, err)
	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, err := NewSigner("secret", time.Minute)
	require.NoError(t, err)
	start := time.Now()
	s.now = func() time.Time { return start }

	token, err := s.Issue(uuid.New())
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s, err := NewSigner("secret", 0)
	require.NoError(t, err)
	_, err = s.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("", time.Hour)
	assert.Error(t, err)
}
