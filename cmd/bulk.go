package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/service"
	"github.com/Laisky/gitpress/library/log"
)

// conflictRetries how many times a batch re-runs its whole
// read-mutate-write cycle when another writer wins the race
const conflictRetries = 3

var bulkCMD = &cobra.Command{
	Use:   "bulk",
	Short: "batch operations on posts",
	Long: `Apply a whole batch of mutations against one read and one write of
the posts document. A record that fails inside the batch is reported in the
failure partition and skipped; the rest of the batch still lands.`,
	Args: gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var bulkImportCMD = &cobra.Command{
	Use:   "import",
	Short: "import posts from a JSON file",
	Long: `Import posts from a JSON file holding an array of post records.

Example:
  gitpress bulk import --file posts.json`,
	Args: gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		var items []dto.NewPost
		if err = readJSONFile(flagString(cmd, "file"), &items); err != nil {
			log.Logger.Panic("read batch file", zap.Error(err))
		}

		var result *dto.BatchResult
		if err = service.RetryOnConflict(ctx, conflictRetries,
			func(ctx context.Context) error {
				result, err = svc.posts.ImportMany(ctx, items)
				return err
			}); err != nil {
			log.Logger.Panic("import posts", zap.Error(err))
		}

		printJSON(result)
	},
}

var bulkUpdateCMD = &cobra.Command{
	Use:   "update",
	Short: "apply patches from a JSON file",
	Long: `Apply a batch of patches from a JSON file holding an array of
{"slug": ..., "patch": {...}} instructions.`,
	Args: gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		var patches []dto.BulkPostPatch
		if err = readJSONFile(flagString(cmd, "file"), &patches); err != nil {
			log.Logger.Panic("read batch file", zap.Error(err))
		}

		var result *dto.BatchResult
		if err = service.RetryOnConflict(ctx, conflictRetries,
			func(ctx context.Context) error {
				result, err = svc.posts.BulkUpdate(ctx, patches)
				return err
			}); err != nil {
			log.Logger.Panic("bulk update posts", zap.Error(err))
		}

		printJSON(result)
	},
}

var bulkDeleteCMD = &cobra.Command{
	Use:   "delete",
	Short: "delete posts by slug",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		var result *dto.BatchResult
		if err = service.RetryOnConflict(ctx, conflictRetries,
			func(ctx context.Context) error {
				result, err = svc.posts.BulkDelete(ctx, flagStringSlice(cmd, "slugs"))
				return err
			}); err != nil {
			log.Logger.Panic("bulk delete posts", zap.Error(err))
		}

		printJSON(result)
	},
}

func init() {
	rootCMD.AddCommand(bulkCMD)
	bulkCMD.AddCommand(bulkImportCMD, bulkUpdateCMD, bulkDeleteCMD)

	bulkImportCMD.Flags().String("file", "", "path to the JSON batch file (required)")
	bulkUpdateCMD.Flags().String("file", "", "path to the JSON batch file (required)")
	bulkDeleteCMD.Flags().StringSlice("slugs", nil, "comma separated slugs (required)")

	for _, c := range []*cobra.Command{bulkImportCMD, bulkUpdateCMD} {
		if err := c.MarkFlagRequired("file"); err != nil {
			log.Logger.Panic("mark flag required", zap.Error(err))
		}
	}
	if err := bulkDeleteCMD.MarkFlagRequired("slugs"); err != nil {
		log.Logger.Panic("mark flag required", zap.Error(err))
	}
}

func readJSONFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	if err = json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	return nil
}
