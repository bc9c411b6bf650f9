package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/service"
)

func TestAssets_Upload(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	dest, err := env.assets.Upload(ctx, "cover.png", payload)
	require.NoError(t, err)
	require.Equal(t, service.DefaultAssetDir+"/cover.png", dest)

	stored, ok := env.host.Content(dest)
	require.True(t, ok)
	require.Equal(t, payload, stored)
}

func TestAssets_UploadRejectsBadInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.assets.Upload(ctx, "../escape.png", []byte{1})
	require.Error(t, err)

	_, err = env.assets.Upload(ctx, "empty.png", nil)
	require.Error(t, err)
}
