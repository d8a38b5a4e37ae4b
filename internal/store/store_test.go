package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableWrapping(t *testing.T) {
	assert.Nil(t, Unavailable("get", nil))

	err := Unavailable("get", errors.New("permission denied"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "permission denied")

	err = Unavailable("set", ErrQuotaExceeded)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = Unavailable("get", fmt.Errorf("%w: bad file", ErrCorrupt))
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}

type plainStorage struct{ Storage }

func TestResetUnsupported(t *testing.T) {
	err := Reset(plainStorage{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "cannot be reset")
}

func TestCheckQuota(t *testing.T) {
	assert.NoError(t, CheckQuota(0, 100, 0, "k", "v"), "disabled")
	assert.NoError(t, CheckQuota(10, 5, 0, "k", "1234"))
	assert.ErrorIs(t, CheckQuota(10, 5, 0, "k", "12345"), ErrQuotaExceeded)
	assert.NoError(t, CheckQuota(10, 10, 5, "k", "1234"), "old entry is replaced")
}
