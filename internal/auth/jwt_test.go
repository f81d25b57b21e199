package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehive/server/internal/domain"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	j := New("s3cret")
	tok, err := j.Sign(domain.Identity{ID: "u1", DisplayName: "Alice"}, time.Minute)
	require.NoError(t, err)

	id, err := j.Verify(tok)
	require.NoError(t, err)
	assert.EqualValues(t, "u1", id.ID)
	assert.Equal(t, "Alice", id.DisplayName)
	assert.False(t, id.Guest)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := New("one").Sign(domain.Identity{ID: "u1", DisplayName: "Alice"}, time.Minute)
	require.NoError(t, err)

	_, err = New("two").Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := New("s3cret")
	tok, err := j.Sign(domain.Identity{ID: "u1", DisplayName: "Alice"}, -time.Minute)
	require.NoError(t, err)

	_, err = j.Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsEmptyToken(t *testing.T) {
	_, err := New("s3cret").Verify("")
	assert.Error(t, err, "missing token demotes to guest at the call site")
}

func TestDisplayNameFallsBackToSubject(t *testing.T) {
	j := New("s3cret")
	tok, err := j.Sign(domain.Identity{ID: "u1"}, time.Minute)
	require.NoError(t, err)

	id, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.DisplayName)
}

func TestSignRequiresSubject(t *testing.T) {
	_, err := New("s3cret").Sign(domain.Identity{DisplayName: "nobody"}, time.Minute)
	assert.ErrorIs(t, err, ErrNoSubject)
}
