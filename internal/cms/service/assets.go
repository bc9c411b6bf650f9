package service

import (
	"context"
	"fmt"
	"path"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Laisky/gitpress/internal/cms/dao"
)

// DefaultAssetDir repository directory for uploaded binary assets
const DefaultAssetDir = "public/images"

// Assets uploader for binary assets (cover images, author avatars).
type Assets struct {
	logger glog.Logger
	dao    *dao.CMS
	dir    string
}

// NewAssets new asset uploader storing under dir, or DefaultAssetDir when
// empty.
func NewAssets(logger glog.Logger, dao *dao.CMS, dir string) *Assets {
	if dir == "" {
		dir = DefaultAssetDir
	}

	return &Assets{
		logger: logger,
		dao:    dao,
		dir:    dir,
	}
}

// Upload store an opaque byte payload under the asset directory and return
// its repository path.
func (s *Assets) Upload(ctx context.Context,
	name string, data []byte) (string, error) {
	if name == "" || name != path.Base(name) {
		return "", errors.Errorf("invalid asset name %q", name)
	}
	if len(data) == 0 {
		return "", errors.New("empty asset payload")
	}

	dest := path.Join(s.dir, name)
	if _, err := s.dao.UploadAsset(ctx, dest, data,
		fmt.Sprintf("Upload asset: %s", name)); err != nil {
		return "", err
	}

	s.logger.Info("uploaded asset",
		zap.String("path", dest), zap.Int("bytes", len(data)))
	return dest, nil
}
