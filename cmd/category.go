package cmd

import (
	"context"
	"fmt"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/library/log"
)

var categoryCMD = &cobra.Command{
	Use:   "category",
	Short: "manage categories",
	Args:  gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var categoryCreateCMD = &cobra.Command{
	Use:   "create",
	Short: "create a category",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		cat, err := svc.categories.Create(ctx, dto.NewCategory{
			Name:        flagString(cmd, "name"),
			Slug:        flagString(cmd, "slug"),
			Description: flagString(cmd, "description"),
			Color:       flagString(cmd, "color"),
			Icon:        flagString(cmd, "icon"),
		})
		if err != nil {
			log.Logger.Panic("create category", zap.Error(err))
		}

		printJSON(cat)
	},
}

var categoryUpdateCMD = &cobra.Command{
	Use:   "update <slug>",
	Short: "update a category by slug",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		patch := dto.CategoryPatch{}
		if cmd.Flags().Changed("name") {
			patch.Name = ptr(flagString(cmd, "name"))
		}
		if cmd.Flags().Changed("slug") {
			patch.Slug = ptr(flagString(cmd, "slug"))
		}
		if cmd.Flags().Changed("description") {
			patch.Description = ptr(flagString(cmd, "description"))
		}
		if cmd.Flags().Changed("color") {
			patch.Color = ptr(flagString(cmd, "color"))
		}
		if cmd.Flags().Changed("icon") {
			patch.Icon = ptr(flagString(cmd, "icon"))
		}

		cat, err := svc.categories.Update(ctx, args[0], patch)
		if err != nil {
			log.Logger.Panic("update category", zap.Error(err))
		}

		printJSON(cat)
	},
}

var categoryDeleteCMD = &cobra.Command{
	Use:   "delete <slug>",
	Short: "delete a category by slug",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		if err = svc.categories.Delete(ctx, args[0]); err != nil {
			log.Logger.Panic("delete category", zap.Error(err))
		}

		fmt.Printf("deleted %s\n", args[0])
	},
}

var categoryListCMD = &cobra.Command{
	Use:   "list",
	Short: "list categories",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		cats, err := svc.categories.List(ctx)
		if err != nil {
			log.Logger.Panic("list categories", zap.Error(err))
		}

		printJSON(cats)
	},
}

func addCategoryFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "category name")
	cmd.Flags().String("slug", "", "explicit slug, derived from name when empty")
	cmd.Flags().String("description", "", "short description")
	cmd.Flags().String("color", "", "accent color")
	cmd.Flags().String("icon", "", "icon identifier")
}

func init() {
	rootCMD.AddCommand(categoryCMD)
	categoryCMD.AddCommand(categoryCreateCMD, categoryUpdateCMD,
		categoryDeleteCMD, categoryListCMD)

	addCategoryFieldFlags(categoryCreateCMD)
	addCategoryFieldFlags(categoryUpdateCMD)
	if err := categoryCreateCMD.MarkFlagRequired("name"); err != nil {
		log.Logger.Panic("mark flag required", zap.Error(err))
	}
}
