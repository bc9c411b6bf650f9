package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/service"
	"github.com/Laisky/gitpress/library/db/githost"
	"github.com/Laisky/gitpress/library/db/githost/githosttest"
	"github.com/Laisky/gitpress/library/log"
)

type testEnv struct {
	host       *githosttest.Host
	dao        *dao.CMS
	posts      *service.Posts
	categories *service.Categories
	site       *service.Site
	assets     *service.Assets
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	host := githosttest.New("test-token")
	srv := host.Server()
	t.Cleanup(srv.Close)

	store, err := githost.New("laisky", "news-content", "test-token",
		githost.WithAPI(srv.URL))
	require.NoError(t, err)

	d := dao.New(log.Logger, store)
	return &testEnv{
		host:       host,
		dao:        d,
		posts:      service.NewPosts(log.Logger, d),
		categories: service.NewCategories(log.Logger, d),
		site:       service.NewSite(log.Logger, d),
		assets:     service.NewAssets(log.Logger, d, ""),
	}
}
