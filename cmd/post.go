package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/library/log"
)

var postCMD = &cobra.Command{
	Use:   "post",
	Short: "manage posts",
	Long:  `create, update, delete and list posts in the content repository`,
	Args:  gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var postCreateCMD = &cobra.Command{
	Use:   "create",
	Short: "create a post",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		in := dto.NewPost{
			Title:       flagString(cmd, "title"),
			Slug:        flagString(cmd, "slug"),
			Excerpt:     flagString(cmd, "excerpt"),
			Category:    flagString(cmd, "category"),
			Author:      flagString(cmd, "author"),
			AuthorImage: flagString(cmd, "author-image"),
			Date:        flagString(cmd, "date"),
			Image:       flagString(cmd, "image"),
			Featured:    flagBool(cmd, "featured"),
			Views:       flagInt(cmd, "views"),
			Tags:        flagStringSlice(cmd, "tags"),
		}
		if in.Content, err = readContentFlag(cmd); err != nil {
			log.Logger.Panic("read content", zap.Error(err))
		}

		post, err := svc.posts.Create(ctx, in)
		if err != nil {
			log.Logger.Panic("create post", zap.Error(err))
		}

		printJSON(post)
	},
}

var postUpdateCMD = &cobra.Command{
	Use:   "update <slug>",
	Short: "update a post by slug",
	Long: `Update the post matching the given slug. Only flags that were set
are applied; everything else is preserved. Changing the title regenerates
the slug unless --slug pins it explicitly.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		patch := dto.PostPatch{}
		if cmd.Flags().Changed("title") {
			patch.Title = ptr(flagString(cmd, "title"))
		}
		if cmd.Flags().Changed("slug") {
			patch.Slug = ptr(flagString(cmd, "slug"))
		}
		if cmd.Flags().Changed("excerpt") {
			patch.Excerpt = ptr(flagString(cmd, "excerpt"))
		}
		if cmd.Flags().Changed("category") {
			patch.Category = ptr(flagString(cmd, "category"))
		}
		if cmd.Flags().Changed("author") {
			patch.Author = ptr(flagString(cmd, "author"))
		}
		if cmd.Flags().Changed("author-image") {
			patch.AuthorImage = ptr(flagString(cmd, "author-image"))
		}
		if cmd.Flags().Changed("date") {
			patch.Date = ptr(flagString(cmd, "date"))
		}
		if cmd.Flags().Changed("image") {
			patch.Image = ptr(flagString(cmd, "image"))
		}
		if cmd.Flags().Changed("featured") {
			patch.Featured = ptr(flagBool(cmd, "featured"))
		}
		if cmd.Flags().Changed("views") {
			patch.Views = ptr(flagInt(cmd, "views"))
		}
		if cmd.Flags().Changed("tags") {
			patch.Tags = ptr(flagStringSlice(cmd, "tags"))
		}
		if cmd.Flags().Changed("content-file") {
			content, err := readContentFlag(cmd)
			if err != nil {
				log.Logger.Panic("read content", zap.Error(err))
			}
			patch.Content = &content
		}

		post, err := svc.posts.Update(ctx, args[0], patch)
		if err != nil {
			log.Logger.Panic("update post", zap.Error(err))
		}

		printJSON(post)
	},
}

var postDeleteCMD = &cobra.Command{
	Use:   "delete <slug>",
	Short: "delete a post by slug",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		if err = svc.posts.Delete(ctx, args[0]); err != nil {
			log.Logger.Panic("delete post", zap.Error(err))
		}

		fmt.Printf("deleted %s\n", args[0])
	},
}

var postListCMD = &cobra.Command{
	Use:   "list",
	Short: "list posts, newest first",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newServices(ctx)
		if err != nil {
			log.Logger.Panic("new services", zap.Error(err))
		}

		posts, err := svc.posts.List(ctx)
		if err != nil {
			log.Logger.Panic("list posts", zap.Error(err))
		}

		printJSON(posts)
	},
}

func addPostFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "post title")
	cmd.Flags().String("slug", "", "explicit slug, derived from title when empty")
	cmd.Flags().String("excerpt", "", "excerpt, derived from content when empty")
	cmd.Flags().String("content-file", "", "path to a markdown file with the post body")
	cmd.Flags().String("category", "", "category slug")
	cmd.Flags().String("author", "", "author name")
	cmd.Flags().String("author-image", "", "author avatar URL")
	cmd.Flags().String("date", "", "calendar date like 2025-08-25, today when empty")
	cmd.Flags().String("image", "", "cover image URL")
	cmd.Flags().Bool("featured", false, "pin on the front page")
	cmd.Flags().Int("views", 0, "seed view counter")
	cmd.Flags().StringSlice("tags", nil, "comma separated tags")
}

func init() {
	rootCMD.AddCommand(postCMD)
	postCMD.AddCommand(postCreateCMD, postUpdateCMD, postDeleteCMD, postListCMD)

	addPostFieldFlags(postCreateCMD)
	addPostFieldFlags(postUpdateCMD)
	if err := postCreateCMD.MarkFlagRequired("title"); err != nil {
		log.Logger.Panic("mark flag required", zap.Error(err))
	}
}

func readContentFlag(cmd *cobra.Command) (string, error) {
	path := flagString(cmd, "content-file")
	if path == "" {
		return "", nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}

	return string(raw), nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		log.Logger.Panic("get flag", zap.Error(err), zap.String("flag", name))
	}
	return v
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		log.Logger.Panic("get flag", zap.Error(err), zap.String("flag", name))
	}
	return v
}

func flagInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		log.Logger.Panic("get flag", zap.Error(err), zap.String("flag", name))
	}
	return v
}

func flagStringSlice(cmd *cobra.Command, name string) []string {
	v, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		log.Logger.Panic("get flag", zap.Error(err), zap.String("flag", name))
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Logger.Panic("marshal output", zap.Error(err))
	}
	fmt.Println(string(out))
}
