package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/model"
	"github.com/Laisky/gitpress/library/db/githost"
	"github.com/Laisky/gitpress/library/db/githost/githosttest"
	"github.com/Laisky/gitpress/library/log"
)

func newTestDAO(t *testing.T) (*dao.CMS, *githosttest.Host) {
	t.Helper()

	host := githosttest.New("test-token")
	srv := host.Server()
	t.Cleanup(srv.Close)

	store, err := githost.New("laisky", "news-content", "test-token",
		githost.WithAPI(srv.URL))
	require.NoError(t, err)

	return dao.New(log.Logger, store), host
}

func TestCMS_EmptyDefaults(t *testing.T) {
	t.Parallel()
	d, _ := newTestDAO(t)
	ctx := context.Background()

	posts, err := d.Posts(ctx)
	require.NoError(t, err)
	require.NotNil(t, posts.Posts)
	require.Empty(t, posts.Posts)

	cats, err := d.Categories(ctx)
	require.NoError(t, err)
	require.NotNil(t, cats.Categories)
	require.Empty(t, cats.Categories)

	settings, err := d.Settings(ctx)
	require.NoError(t, err)
	require.Empty(t, settings)
}

func TestCMS_MalformedDocument(t *testing.T) {
	t.Parallel()
	d, host := newTestDAO(t)

	host.Seed(dao.DefaultPostsPath, []byte(`{"posts": not json`))

	_, err := d.Posts(context.Background())
	require.ErrorIs(t, err, githost.ErrMalformedDocument)
}

func TestCMS_WriteInvalidatesCache(t *testing.T) {
	t.Parallel()
	d, host := newTestDAO(t)
	ctx := context.Background()

	// warm the cache with the empty default
	_, err := d.Posts(ctx)
	require.NoError(t, err)

	doc := &model.PostsDocument{Posts: []model.Post{{ID: "1", Slug: "one"}}}
	require.NoError(t, d.WritePosts(ctx, doc, "Add post: one"))

	got, err := d.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1, "the write must invalidate the cached empty read")

	raw, ok := host.Content(dao.DefaultPostsPath)
	require.True(t, ok)
	require.Contains(t, string(raw), "\n  ", "documents are pretty-printed")
}

func TestCMS_WriteGuardedByReadVersion(t *testing.T) {
	t.Parallel()
	d, host := newTestDAO(t)
	ctx := context.Background()

	host.Seed(dao.DefaultPostsPath,
		[]byte(`{"posts":[{"id":"1","slug":"one"}]}`))

	// the cycle's read records the version token the mutation starts from
	doc, err := d.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Posts, 1)

	// an external writer supersedes the document before this cycle's write
	host.Seed(dao.DefaultPostsPath, []byte(`{"posts":[]}`))

	doc.Posts[0].Title = "Renamed"
	err = d.WritePosts(ctx, doc, "Update post: one")
	require.ErrorIs(t, err, githost.ErrConflict,
		"a write computed from a superseded read must not land")

	// the external write survives untouched
	raw, ok := host.Content(dao.DefaultPostsPath)
	require.True(t, ok)
	require.Equal(t, `{"posts":[]}`, string(raw))

	// re-reading picks up the external write and the cycle succeeds
	doc, err = d.Posts(ctx)
	require.NoError(t, err)
	require.Empty(t, doc.Posts)
	require.NoError(t, d.WritePosts(ctx, doc, "Update posts"))
}

func TestCMS_PrettyPrintedJSON(t *testing.T) {
	t.Parallel()
	d, host := newTestDAO(t)
	ctx := context.Background()

	require.NoError(t, d.WriteSettings(ctx,
		model.SiteSettings{"siteName": "Daily Ledger"}, "Update site settings"))

	raw, ok := host.Content(dao.DefaultSettingsPath)
	require.True(t, ok)
	require.Contains(t, string(raw), "  \"siteName\": \"Daily Ledger\"")
}
