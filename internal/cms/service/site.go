package service

import (
	"context"

	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/gitpress/internal/cms/dao"
	"github.com/Laisky/gitpress/internal/cms/model"
)

// Site mutator for the site settings document
type Site struct {
	logger glog.Logger
	dao    *dao.CMS
}

// NewSite new site settings mutator
func NewSite(logger glog.Logger, dao *dao.CMS) *Site {
	return &Site{
		logger: logger,
		dao:    dao,
	}
}

// Get current site settings.
func (s *Site) Get(ctx context.Context) (model.SiteSettings, error) {
	return s.dao.Settings(ctx)
}

// Update merge the given keys over the current settings and write the
// document back. Keys absent from patch are preserved.
func (s *Site) Update(ctx context.Context,
	patch map[string]any) (model.SiteSettings, error) {
	unlock := s.dao.Lock(s.dao.SettingsPath())
	defer unlock()

	doc, err := s.dao.Settings(ctx)
	if err != nil {
		return nil, err
	}

	for k, v := range patch {
		doc[k] = v
	}

	if err = s.dao.WriteSettings(ctx, doc, "Update site settings"); err != nil {
		return nil, err
	}

	s.logger.Info("updated site settings", zap.Int("keys", len(patch)))
	return doc, nil
}
