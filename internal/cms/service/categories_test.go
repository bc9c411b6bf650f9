package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/model"
)

func TestCategories_CreateAndList(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.categories.Create(ctx, dto.NewCategory{
		Name:        "World Politics",
		Description: "Global affairs",
		Color:       "#1D4ED8",
		Icon:        "globe",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "world-politics", created.Slug)

	cats, err := env.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "World Politics", cats[0].Name)
}

func TestCategories_NotFoundDefault(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cats, err := env.categories.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, cats)
}

func TestCategories_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.categories.Create(ctx, dto.NewCategory{Name: "Tech"})
	require.NoError(t, err)

	desc := "Technology and science"
	updated, err := env.categories.Update(ctx, created.Slug,
		dto.CategoryPatch{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, desc, updated.Description)
	require.Equal(t, "Tech", updated.Name, "unpatched fields preserved")

	require.NoError(t, env.categories.Delete(ctx, created.Slug))
	err = env.categories.Delete(ctx, created.Slug)
	require.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestCategories_ImportManyPartition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	putsBefore := env.host.Puts()

	result, err := env.categories.ImportMany(ctx, []dto.NewCategory{
		{Name: "Economy"},
		{Name: ""}, // recorded as failed, batch continues
		{Name: "Culture"},
	})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	require.Equal(t, 1, env.host.Puts()-putsBefore, "one combined write")
}
