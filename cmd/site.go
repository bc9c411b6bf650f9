package cmd

import (
	"context"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/library/log"
)

var siteCMD = &cobra.Command{
	Use:   "site",
	Short: "manage site settings",
	Args:  gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var siteGetCMD = &cobra.Command{
	Use:   "get",
	Short: "show site settings",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		settings, err := svc.site.Get(ctx)
		if err != nil {
			log.Logger.Panic("get settings", zap.Error(err))
		}

		printJSON(settings)
	},
}

var siteSetCMD = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "set one site settings key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		settings, err := svc.site.Update(ctx, map[string]any{args[0]: args[1]})
		if err != nil {
			log.Logger.Panic("update settings", zap.Error(err))
		}

		printJSON(settings)
	},
}

func init() {
	rootCMD.AddCommand(siteCMD)
	siteCMD.AddCommand(siteGetCMD, siteSetCMD)
}
