package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSite_UpdatePreservesKeys(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.site.Update(ctx, map[string]any{
		"siteName": "Daily Ledger",
		"tagline":  "News that matters",
	})
	require.NoError(t, err)

	settings, err := env.site.Update(ctx, map[string]any{
		"tagline": "All the news",
	})
	require.NoError(t, err)
	require.Equal(t, "Daily Ledger", settings["siteName"], "untouched keys preserved")
	require.Equal(t, "All the news", settings["tagline"])
	require.NotEmpty(t, settings["lastUpdated"])
}

func TestSite_GetEmptyDefault(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	settings, err := env.site.Get(context.Background())
	require.NoError(t, err)
	require.Empty(t, settings)
}
