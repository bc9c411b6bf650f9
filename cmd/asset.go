package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/library/log"
)

var assetCMD = &cobra.Command{
	Use:   "asset",
	Short: "manage binary assets",
	Args:  gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var assetUploadCMD = &cobra.Command{
	Use:   "upload <file>",
	Short: "upload a binary asset to the content repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Logger.Panic("read asset", zap.Error(err), zap.String("file", args[0]))
		}

		name := flagString(cmd, "name")
		if name == "" {
			name = filepath.Base(args[0])
		}

		dest, err := svc.assets.Upload(ctx, name, data)
		if err != nil {
			log.Logger.Panic("upload asset", zap.Error(err))
		}

		fmt.Println(dest)
	},
}

func init() {
	rootCMD.AddCommand(assetCMD)
	assetCMD.AddCommand(assetUploadCMD)

	assetUploadCMD.Flags().String("name", "", "destination file name, defaults to the local name")
}
