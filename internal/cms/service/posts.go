// Package service implements the document mutators: read one document,
// apply an in-memory mutation, write the whole document back with a
// human-readable commit message. A cycle either fully succeeds or fully
// fails and leaves the remote document untouched; nothing here retries,
// a version conflict surfaces to the caller who must re-read first.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/model"
)

// excerptLen default excerpt length in runes
const excerptLen = 200

// Posts mutator for the posts document
type Posts struct {
	logger glog.Logger
	dao    *dao.CMS
}

// NewPosts new posts mutator
func NewPosts(logger glog.Logger, dao *dao.CMS) *Posts {
	return &Posts{
		logger: logger,
		dao:    dao,
	}
}

// List current posts, newest first.
func (s *Posts) List(ctx context.Context) ([]model.Post, error) {
	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Posts, nil
}

// Get one post by slug.
func (s *Posts) Get(ctx context.Context, slug string) (*model.Post, error) {
	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	idx := findPost(doc.Posts, slug)
	if idx < 0 {
		return nil, errors.Wrapf(model.ErrRecordNotFound, "post %q", slug)
	}

	return &doc.Posts[idx], nil
}

// Create insert a new post at the head of the list (newest-first is the
// display convention) and write the document back.
func (s *Posts) Create(ctx context.Context, in dto.NewPost) (*model.Post, error) {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	post, err := buildPost(doc.Posts, in)
	if err != nil {
		return nil, err
	}

	doc.Posts = append([]model.Post{*post}, doc.Posts...)
	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Add post: %s", post.Title)); err != nil {
		return nil, err
	}

	s.logger.Info("created post",
		zap.String("slug", post.Slug), zap.String("id", post.ID))
	return post, nil
}

// Update locate the post by slug and shallow-merge the patch over it:
// non-nil patch fields replace, nil fields are preserved. A title change
// regenerates the slug unless the patch pins one explicitly; callers that
// want a stable identity across title edits must pass the existing slug.
func (s *Posts) Update(ctx context.Context,
	slug string, patch dto.PostPatch) (*model.Post, error) {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	post, err := applyPostPatch(doc.Posts, slug, patch)
	if err != nil {
		return nil, err
	}

	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Update post: %s", post.Slug)); err != nil {
		return nil, err
	}

	s.logger.Info("updated post",
		zap.String("slug", post.Slug), zap.String("id", post.ID))
	return post, nil
}

// Delete remove the post matching slug and write the document back.
func (s *Posts) Delete(ctx context.Context, slug string) error {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return err
	}

	idx := findPost(doc.Posts, slug)
	if idx < 0 {
		return errors.Wrapf(model.ErrRecordNotFound, "post %q", slug)
	}

	doc.Posts = append(doc.Posts[:idx], doc.Posts[idx+1:]...)
	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Delete post: %s", slug)); err != nil {
		return err
	}

	s.logger.Info("deleted post", zap.String("slug", slug))
	return nil
}

// InvalidateCache drop this session's cached view of the posts document,
// e.g. after a write issued by another tool.
func (s *Posts) InvalidateCache() {
	s.dao.Invalidate(s.dao.PostsPath())
}

func findPost(posts []model.Post, slug string) int {
	for i := range posts {
		if posts[i].Slug == slug {
			return i
		}
	}

	return -1
}

// slugTaken whether slug belongs to a record other than the one with ownID.
func slugTaken(posts []model.Post, slug, ownID string) bool {
	for i := range posts {
		if posts[i].Slug == slug && posts[i].ID != ownID {
			return true
		}
	}

	return false
}

// buildPost assign identity and default fields to a new post.
//
// A derived slug that collides with an existing record gets a numeric
// disambiguating suffix; an explicitly supplied slug that collides fails
// with ErrDuplicateSlug instead, silently shadowing a record would make it
// unreachable by slug lookup.
func buildPost(existing []model.Post, in dto.NewPost) (*model.Post, error) {
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	if in.Views < 0 {
		return nil, errors.Errorf("views must be non-negative, got %d", in.Views)
	}

	slug := in.Slug
	switch {
	case slug != "":
		if slugTaken(existing, slug, "") {
			return nil, errors.Wrapf(model.ErrDuplicateSlug, "slug %q", slug)
		}
	default:
		slug = disambiguate(Slugify(in.Title), existing)
	}

	date := in.Date
	if date == "" {
		date = time.Now().Format(model.DateFormat)
	}

	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = Excerpt(in.Content, excerptLen)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.Post{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       in.Title,
		Excerpt:     excerpt,
		Content:     in.Content,
		Category:    in.Category,
		Author:      in.Author,
		AuthorImage: in.AuthorImage,
		Date:        date,
		Image:       in.Image,
		Featured:    in.Featured,
		Views:       in.Views,
		Tags:        tags,
	}, nil
}

// disambiguate append -2, -3, ... until the slug is free.
func disambiguate(slug string, existing []model.Post) string {
	if !slugTaken(existing, slug, "") {
		return slug
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if !slugTaken(existing, candidate, "") {
			return candidate
		}
	}
}

// applyPostPatch merge patch over the record matching slug, in place.
func applyPostPatch(posts []model.Post,
	slug string, patch dto.PostPatch) (*model.Post, error) {
	idx := findPost(posts, slug)
	if idx < 0 {
		return nil, errors.Wrapf(model.ErrRecordNotFound, "post %q", slug)
	}

	post := posts[idx]
	if err := copier.CopyWithOption(&post, patch,
		copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "merge patch")
	}

	if patch.Title != nil && patch.Slug == nil {
		post.Slug = Slugify(*patch.Title)
	}
	if post.Slug != slug && slugTaken(posts, post.Slug, post.ID) {
		return nil, errors.Wrapf(model.ErrDuplicateSlug, "slug %q", post.Slug)
	}
	if post.Views < 0 {
		return nil, errors.Errorf("views must be non-negative, got %d", post.Views)
	}

	posts[idx] = post
	return &posts[idx], nil
}
