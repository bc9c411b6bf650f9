package service

import (
	"context"
	"fmt"

	"github.com/Laisky/zap"

	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/model"
)

// Batch operations apply the single-record mutators' logic to a whole
// batch against one read and one write of the document. An individual
// record's failure is recorded in the partition and skipped; it never
// aborts the batch.

// ImportMany insert a batch of posts with one combined write.
func (s *Posts) ImportMany(ctx context.Context,
	items []dto.NewPost) (*dto.BatchResult, error) {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	result := new(dto.BatchResult)
	for _, in := range items {
		post, err := buildPost(doc.Posts, in)
		if err != nil {
			result.Failed = append(result.Failed,
				dto.BatchFailure{Key: in.Title, Reason: err.Error()})
			continue
		}

		doc.Posts = append([]model.Post{*post}, doc.Posts...)
		result.Succeeded = append(result.Succeeded, post.Slug)
	}

	if len(result.Succeeded) == 0 {
		return result, nil
	}

	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Import %d posts", len(result.Succeeded))); err != nil {
		return nil, err
	}

	s.logger.Info("imported posts",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// BulkUpdate apply a batch of patches with one combined write. Instructions
// whose key matches no record are reported as failed and skipped.
func (s *Posts) BulkUpdate(ctx context.Context,
	patches []dto.BulkPostPatch) (*dto.BatchResult, error) {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	result := new(dto.BatchResult)
	for _, instr := range patches {
		post, err := applyPostPatch(doc.Posts, instr.Slug, instr.Patch)
		if err != nil {
			result.Failed = append(result.Failed,
				dto.BatchFailure{Key: instr.Slug, Reason: err.Error()})
			continue
		}

		result.Succeeded = append(result.Succeeded, post.Slug)
	}

	if len(result.Succeeded) == 0 {
		return result, nil
	}

	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Bulk update %d posts", len(result.Succeeded))); err != nil {
		return nil, err
	}

	s.logger.Info("bulk updated posts",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// BulkDelete remove a batch of posts with one combined write.
func (s *Posts) BulkDelete(ctx context.Context,
	slugs []string) (*dto.BatchResult, error) {
	unlock := s.dao.Lock(s.dao.PostsPath())
	defer unlock()

	doc, err := s.dao.Posts(ctx)
	if err != nil {
		return nil, err
	}

	result := new(dto.BatchResult)
	for _, slug := range slugs {
		idx := findPost(doc.Posts, slug)
		if idx < 0 {
			result.Failed = append(result.Failed,
				dto.BatchFailure{Key: slug, Reason: model.ErrRecordNotFound.Error()})
			continue
		}

		doc.Posts = append(doc.Posts[:idx], doc.Posts[idx+1:]...)
		result.Succeeded = append(result.Succeeded, slug)
	}

	if len(result.Succeeded) == 0 {
		return result, nil
	}

	if err = s.dao.WritePosts(ctx, doc,
		fmt.Sprintf("Bulk delete %d posts", len(result.Succeeded))); err != nil {
		return nil, err
	}

	s.logger.Info("bulk deleted posts",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}
