package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewCountTotal(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ViewCount{}.Total())
	require.Equal(t, 120, ViewCount{Seed: 100, Live: 20}.Total())
}
