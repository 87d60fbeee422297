package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDummyHash(t *testing.T) {
	t.Parallel()
	hash := dummyHash()

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)

	// a full comparison runs and fails, it never short-circuits on a malformed hash
	err = bcrypt.CompareHashAndPassword(hash, []byte("s3cret"))
	require.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)

	require.Equal(t, hash, dummyHash())
}
