package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsIncreasing(t *testing.T) {
	require.NoError(t, Configure(7))

	var last uint64

	for range 1000 {
		id, err := Next()
		require.NoError(t, err)
		assert.Greater(t, id, last)

		last = id
	}
}
