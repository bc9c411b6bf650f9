package service_test

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/service"
	"github.com/Laisky/gitpress/library/db/githost"
)

func TestRetryOnConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("succeeds after conflicts", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := service.RetryOnConflict(ctx, 3, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.Wrap(githost.ErrConflict, "write posts")
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		t.Parallel()
		calls := 0
		err := service.RetryOnConflict(ctx, 2, func(ctx context.Context) error {
			calls++
			return errors.Wrap(githost.ErrConflict, "write posts")
		})
		require.ErrorIs(t, err, githost.ErrConflict)
		require.Equal(t, 2, calls)
	})

	t.Run("other errors surface immediately", func(t *testing.T) {
		t.Parallel()
		calls := 0
		boom := errors.New("boom")
		err := service.RetryOnConflict(ctx, 5, func(ctx context.Context) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, calls)
	})
}
