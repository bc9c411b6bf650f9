package service

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/dto"
	"github.com/Laisky/gitpress/internal/cms/model"
)

// Categories mutator for the categories document
type Categories struct {
	logger glog.Logger
	dao    *dao.CMS
}

// NewCategories new categories mutator
func NewCategories(logger glog.Logger, dao *dao.CMS) *Categories {
	return &Categories{
		logger: logger,
		dao:    dao,
	}
}

// List current categories.
func (s *Categories) List(ctx context.Context) ([]model.Category, error) {
	doc, err := s.dao.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return doc.Categories, nil
}

// Create insert a new category, slug derived from name when not supplied.
func (s *Categories) Create(ctx context.Context,
	in dto.NewCategory) (*model.Category, error) {
	unlock := s.dao.Lock(s.dao.CategoriesPath())
	defer unlock()

	doc, err := s.dao.Categories(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := buildCategory(doc.Categories, in)
	if err != nil {
		return nil, err
	}

	doc.Categories = append([]model.Category{*cat}, doc.Categories...)
	if err = s.dao.WriteCategories(ctx, doc,
		fmt.Sprintf("Add category: %s", cat.Name)); err != nil {
		return nil, err
	}

	s.logger.Info("created category", zap.String("slug", cat.Slug))
	return cat, nil
}

// Update shallow-merge the patch over the category matching slug. A name
// change regenerates the slug unless the patch pins one explicitly.
func (s *Categories) Update(ctx context.Context,
	slug string, patch dto.CategoryPatch) (*model.Category, error) {
	unlock := s.dao.Lock(s.dao.CategoriesPath())
	defer unlock()

	doc, err := s.dao.Categories(ctx)
	if err != nil {
		return nil, err
	}

	idx := findCategory(doc.Categories, slug)
	if idx < 0 {
		return nil, errors.Wrapf(model.ErrRecordNotFound, "category %q", slug)
	}

	cat := doc.Categories[idx]
	if err = copier.CopyWithOption(&cat, patch,
		copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "merge patch")
	}

	if patch.Name != nil && patch.Slug == nil {
		cat.Slug = Slugify(*patch.Name)
	}
	if cat.Slug != slug && categorySlugTaken(doc.Categories, cat.Slug, cat.ID) {
		return nil, errors.Wrapf(model.ErrDuplicateSlug, "slug %q", cat.Slug)
	}

	doc.Categories[idx] = cat
	if err = s.dao.WriteCategories(ctx, doc,
		fmt.Sprintf("Update category: %s", cat.Slug)); err != nil {
		return nil, err
	}

	s.logger.Info("updated category", zap.String("slug", cat.Slug))
	return &cat, nil
}

// Delete remove the category matching slug. Posts referencing it keep
// their dangling category slug, the reference was never enforced.
func (s *Categories) Delete(ctx context.Context, slug string) error {
	unlock := s.dao.Lock(s.dao.CategoriesPath())
	defer unlock()

	doc, err := s.dao.Categories(ctx)
	if err != nil {
		return err
	}

	idx := findCategory(doc.Categories, slug)
	if idx < 0 {
		return errors.Wrapf(model.ErrRecordNotFound, "category %q", slug)
	}

	doc.Categories = append(doc.Categories[:idx], doc.Categories[idx+1:]...)
	if err = s.dao.WriteCategories(ctx, doc,
		fmt.Sprintf("Delete category: %s", slug)); err != nil {
		return err
	}

	s.logger.Info("deleted category", zap.String("slug", slug))
	return nil
}

// ImportMany insert a batch of categories against one read and one write.
func (s *Categories) ImportMany(ctx context.Context,
	items []dto.NewCategory) (*dto.BatchResult, error) {
	unlock := s.dao.Lock(s.dao.CategoriesPath())
	defer unlock()

	doc, err := s.dao.Categories(ctx)
	if err != nil {
		return nil, err
	}

	result := new(dto.BatchResult)
	for _, in := range items {
		cat, err := buildCategory(doc.Categories, in)
		if err != nil {
			result.Failed = append(result.Failed,
				dto.BatchFailure{Key: in.Name, Reason: err.Error()})
			continue
		}

		doc.Categories = append([]model.Category{*cat}, doc.Categories...)
		result.Succeeded = append(result.Succeeded, cat.Slug)
	}

	if len(result.Succeeded) == 0 {
		return result, nil
	}

	if err = s.dao.WriteCategories(ctx, doc,
		fmt.Sprintf("Import %d categories", len(result.Succeeded))); err != nil {
		return nil, err
	}

	return result, nil
}

func findCategory(cats []model.Category, slug string) int {
	for i := range cats {
		if cats[i].Slug == slug {
			return i
		}
	}

	return -1
}

func categorySlugTaken(cats []model.Category, slug, ownID string) bool {
	for i := range cats {
		if cats[i].Slug == slug && cats[i].ID != ownID {
			return true
		}
	}

	return false
}

func buildCategory(existing []model.Category,
	in dto.NewCategory) (*model.Category, error) {
	if in.Name == "" {
		return nil, errors.New("name is required")
	}

	slug := in.Slug
	switch {
	case slug != "":
		if categorySlugTaken(existing, slug, "") {
			return nil, errors.Wrapf(model.ErrDuplicateSlug, "slug %q", slug)
		}
	default:
		slug = Slugify(in.Name)
		for n := 2; categorySlugTaken(existing, slug, ""); n++ {
			slug = fmt.Sprintf("%s-%d", Slugify(in.Name), n)
		}
	}

	return &model.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}, nil
}
