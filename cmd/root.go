// Package cmd command line
package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/service"
	"github.com/Laisky/gitpress/library/config"
	"github.com/Laisky/gitpress/library/db/githost"
	"github.com/Laisky/gitpress/library/log"
)

var rootCMD = &cobra.Command{
	Use:   "gitpress",
	Short: "gitpress",
	Long:  `headless news CMS over a git-hosted content repository`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx)
	setupLogger(ctx)

	return nil
}

func setupSettings(ctx context.Context) {
	// mode
	if gconfig.Shared.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.Shared.Set("log-level", "debug")
	} else { // prod mode
		fmt.Println("run in prod mode")
	}

	// load configuration
	cfgPath := gconfig.Shared.GetString("config")
	config.LoadFromFile(cfgPath)
}

func setupLogger(ctx context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

// services the wired mutator stack shared by the subcommands
type services struct {
	dao        *dao.CMS
	posts      *service.Posts
	categories *service.Categories
	site       *service.Site
	assets     *service.Assets
}

// newServices build the content-store client and the mutators from the
// loaded settings.
func newServices(ctx context.Context) (*services, error) {
	var opts []githost.Option
	if api := gconfig.Shared.GetString("settings.githost.api"); api != "" {
		opts = append(opts, githost.WithAPI(api))
	}
	if branch := gconfig.Shared.GetString("settings.githost.branch"); branch != "" {
		opts = append(opts, githost.WithBranch(branch))
	}

	store, err := githost.New(
		gconfig.Shared.GetString("settings.githost.owner"),
		gconfig.Shared.GetString("settings.githost.repo"),
		gconfig.Shared.GetString("settings.githost.token"),
		opts...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "new githost client")
	}

	var daoOpts []dao.Option
	if p := gconfig.Shared.GetString("settings.content.posts"); p != "" {
		daoOpts = append(daoOpts, dao.WithPostsPath(p))
	}
	if p := gconfig.Shared.GetString("settings.content.categories"); p != "" {
		daoOpts = append(daoOpts, dao.WithCategoriesPath(p))
	}
	if p := gconfig.Shared.GetString("settings.content.settings"); p != "" {
		daoOpts = append(daoOpts, dao.WithSettingsPath(p))
	}

	d := dao.New(log.Logger, store, daoOpts...)
	return &services{
		dao:        d,
		posts:      service.NewPosts(log.Logger, d),
		categories: service.NewCategories(log.Logger, d),
		site:       service.NewSite(log.Logger, d),
		assets: service.NewAssets(log.Logger, d,
			gconfig.Shared.GetString("settings.content.assets_dir")),
	}, nil
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().StringP("config", "c",
		"/etc/gitpress/settings.yml", "config file path")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		glog.Shared.Panic("start", zap.Error(err))
	}
}
