package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/model"
)

func TestPosts_CreateDefaults(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.posts.Create(ctx, dto.NewPost{
		Title:   "Hello, World! 2025",
		Content: "# Hello\n\nThis is **bold** news.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "hello-world-2025", created.Slug)
	require.Equal(t, time.Now().Format(model.DateFormat), created.Date)
	require.Zero(t, created.Views)
	require.NotEmpty(t, created.Excerpt, "excerpt should be derived from content")
	require.NotContains(t, created.Excerpt, "<", "excerpt must be plain text")
	require.NotNil(t, created.Tags)

	// round trip: the new record sits at the head of the list
	second, err := env.posts.Create(ctx, dto.NewPost{Title: "Newer Post"})
	require.NoError(t, err)

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, second.Slug, posts[0].Slug, "newest-first ordering")
	require.Equal(t, created.Slug, posts[1].Slug)
	require.NotEqual(t, created.ID, second.ID)
}

func TestPosts_NotFoundDefault(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// the posts document has never been written
	posts, err := env.posts.List(context.Background())
	require.NoError(t, err, "absent document must yield the typed empty default")
	require.Empty(t, posts)
}

func TestPosts_DeleteIdempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, dto.NewPost{Title: "Short Lived"})
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, "short-lived"))

	err = env.posts.Delete(ctx, "short-lived")
	require.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestPosts_UpdateMerge(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.posts.Create(ctx, dto.NewPost{
		Title:    "Budget Review",
		Excerpt:  "The yearly budget.",
		Content:  "Full analysis.",
		Category: "economy",
		Author:   "Jane Roe",
		Featured: true,
		Views:    7,
		Tags:     []string{"budget", "2025"},
	})
	require.NoError(t, err)

	views := 42
	updated, err := env.posts.Update(ctx, created.Slug, dto.PostPatch{Views: &views})
	require.NoError(t, err)

	// every field other than views is preserved
	require.Equal(t, 42, updated.Views)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, created.Slug, updated.Slug)
	require.Equal(t, created.Title, updated.Title)
	require.Equal(t, created.Excerpt, updated.Excerpt)
	require.Equal(t, created.Content, updated.Content)
	require.Equal(t, created.Category, updated.Category)
	require.Equal(t, created.Author, updated.Author)
	require.True(t, updated.Featured)
	require.Equal(t, created.Tags, updated.Tags)

	// a pointer to a zero value replaces, it is not treated as absent
	featured := false
	zero := 0
	updated, err = env.posts.Update(ctx, created.Slug,
		dto.PostPatch{Featured: &featured, Views: &zero})
	require.NoError(t, err)
	require.False(t, updated.Featured)
	require.Zero(t, updated.Views)
	require.Equal(t, created.Title, updated.Title)
	require.Equal(t, created.Tags, updated.Tags)

	// a non-nil tags patch replaces the whole slice
	tags := []string{"finance"}
	updated, err = env.posts.Update(ctx, created.Slug, dto.PostPatch{Tags: &tags})
	require.NoError(t, err)
	require.Equal(t, []string{"finance"}, updated.Tags)
	require.False(t, updated.Featured)
}

func TestPosts_UpdateTitleRegeneratesSlug(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.posts.Create(ctx, dto.NewPost{Title: "Old Title"})
	require.NoError(t, err)

	title := "New Title"
	updated, err := env.posts.Update(ctx, created.Slug, dto.PostPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "new-title", updated.Slug)

	// pinning the slug in the patch keeps the identity stable
	title2 := "Even Newer Title"
	slug := updated.Slug
	updated, err = env.posts.Update(ctx, updated.Slug,
		dto.PostPatch{Title: &title2, Slug: &slug})
	require.NoError(t, err)
	require.Equal(t, "new-title", updated.Slug)
	require.Equal(t, "Even Newer Title", updated.Title)
}

func TestPosts_UpdateNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	title := "whatever"
	_, err := env.posts.Update(context.Background(), "no-such-post",
		dto.PostPatch{Title: &title})
	require.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestPosts_SlugCollisions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.posts.Create(ctx, dto.NewPost{Title: "Breaking News"})
	require.NoError(t, err)
	require.Equal(t, "breaking-news", first.Slug)

	// derived collision is disambiguated with a numeric suffix
	second, err := env.posts.Create(ctx, dto.NewPost{Title: "Breaking News"})
	require.NoError(t, err)
	require.Equal(t, "breaking-news-2", second.Slug)

	// an explicitly supplied colliding slug fails instead
	_, err = env.posts.Create(ctx,
		dto.NewPost{Title: "Other", Slug: "breaking-news"})
	require.ErrorIs(t, err, model.ErrDuplicateSlug)

	// update regenerating into a taken slug fails too
	title := "Breaking News"
	_, err = env.posts.Update(ctx, second.Slug, dto.PostPatch{Title: &title})
	require.ErrorIs(t, err, model.ErrDuplicateSlug)
}

func TestPosts_BulkUpdatePartition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.ImportMany(ctx, []dto.NewPost{
		{Title: "Post One"},
		{Title: "Post Two"},
		{Title: "Post Three"},
		{Title: "Post Four"},
		{Title: "Post Five"},
	})
	require.NoError(t, err)

	putsBefore := env.host.Puts()

	author := "News Desk"
	result, err := env.posts.BulkUpdate(ctx, []dto.BulkPostPatch{
		{Slug: "post-one", Patch: dto.PostPatch{Author: &author}},
		{Slug: "post-two", Patch: dto.PostPatch{Author: &author}},
		{Slug: "no-such-post", Patch: dto.PostPatch{Author: &author}},
	})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	require.Equal(t, "no-such-post", result.Failed[0].Key)

	// one combined write, not one per instruction
	require.Equal(t, 1, env.host.Puts()-putsBefore)

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	for _, p := range posts {
		switch p.Slug {
		case "post-one", "post-two":
			require.Equal(t, author, p.Author)
		default:
			require.Empty(t, p.Author)
		}
	}
}

func TestPosts_BulkDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.ImportMany(ctx, []dto.NewPost{
		{Title: "Keep Me"},
		{Title: "Drop Me"},
	})
	require.NoError(t, err)

	result, err := env.posts.BulkDelete(ctx, []string{"drop-me", "never-existed"})
	require.NoError(t, err)
	require.Equal(t, []string{"drop-me"}, result.Succeeded)
	require.Len(t, result.Failed, 1)

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "keep-me", posts[0].Slug)
}

func TestPosts_ImportManyPartition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	putsBefore := env.host.Puts()

	result, err := env.posts.ImportMany(ctx, []dto.NewPost{
		{Title: "Valid Post"},
		{Title: ""}, // missing title is recorded, not fatal
		{Title: "Another Valid Post"},
	})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	require.Equal(t, 1, env.host.Puts()-putsBefore)
}

func TestPosts_LastUpdatedStamped(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, dto.NewPost{Title: "Stamped"})
	require.NoError(t, err)

	raw, ok := env.host.Content(dao.DefaultPostsPath)
	require.True(t, ok)

	doc := new(model.PostsDocument)
	require.NoError(t, json.Unmarshal(raw, doc))
	require.NotEmpty(t, doc.LastUpdated)
	_, err = time.Parse(time.RFC3339, doc.LastUpdated)
	require.NoError(t, err, "lastUpdated must be ISO-8601")
}

func TestPosts_CacheInvalidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, dto.NewPost{Title: "Cached"})
	require.NoError(t, err)

	// warm the cache
	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// an external writer replaces the document behind this session's back
	env.host.Seed(dao.DefaultPostsPath, []byte(`{"posts":[]}`))

	// the session still sees its cached view
	posts, err = env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// explicit invalidation picks up the external write
	env.posts.InvalidateCache()
	posts, err = env.posts.List(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)
}
