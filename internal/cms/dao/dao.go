// Package dao mediates document access between the mutators and the
// content store.
//
// It owns the repository paths of the three content documents, applies the
// typed empty-document defaults when a path has never been written, and
// keeps a session-local read cache that is invalidated after every write
// this session issues.
package dao

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v6/log"
	"golang.org/x/sync/singleflight"

	"github.com/Laisky/gitpress/internal/cms/model"
	"github.com/Laisky/gitpress/library/db/githost"
)

// default repository paths of the content documents
const (
	DefaultPostsPath      = "data/posts.json"
	DefaultCategoriesPath = "data/categories.json"
	DefaultSettingsPath   = "data/settings.json"
)

// CMS dao type
type CMS struct {
	logger glog.Logger
	store  *githost.Client
	cache  *Cache
	sf     singleflight.Group

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	postsPath      string
	categoriesPath string
	settingsPath   string
}

// Option configure the dao
type Option func(*CMS)

// WithPostsPath override the posts document path
func WithPostsPath(path string) Option {
	return func(d *CMS) { d.postsPath = path }
}

// WithCategoriesPath override the categories document path
func WithCategoriesPath(path string) Option {
	return func(d *CMS) { d.categoriesPath = path }
}

// WithSettingsPath override the settings document path
func WithSettingsPath(path string) Option {
	return func(d *CMS) { d.settingsPath = path }
}

// New create new dao
func New(logger glog.Logger, store *githost.Client, opts ...Option) *CMS {
	d := &CMS{
		logger:         logger,
		store:          store,
		cache:          NewCache(),
		locks:          map[string]*sync.Mutex{},
		postsPath:      DefaultPostsPath,
		categoriesPath: DefaultCategoriesPath,
		settingsPath:   DefaultSettingsPath,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// PostsPath repository path of the posts document
func (d *CMS) PostsPath() string { return d.postsPath }

// CategoriesPath repository path of the categories document
func (d *CMS) CategoriesPath() string { return d.categoriesPath }

// SettingsPath repository path of the settings document
func (d *CMS) SettingsPath() string { return d.settingsPath }

// Lock serialize this session's read-modify-write cycles on one path.
// Cross-session races are left to the store's version check.
func (d *CMS) Lock(path string) (unlock func()) {
	d.mu.Lock()
	l, ok := d.locks[path]
	if !ok {
		l = new(sync.Mutex)
		d.locks[path] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Invalidate drop the cached read of one path.
func (d *CMS) Invalidate(path string) {
	d.cache.Invalidate(path)
}

// InvalidateAll drop every cached read.
func (d *CMS) InvalidateAll() {
	d.cache.InvalidateAll()
}

// readRaw cached read of a document's raw bytes. Returns nil bytes when the
// path has never been written; concurrent reads of one path are collapsed
// into a single store round trip.
func (d *CMS) readRaw(ctx context.Context, path string) ([]byte, error) {
	v, err, _ := d.sf.Do(path, func() (any, error) {
		if raw, _, ok := d.cache.Get(path); ok {
			return raw, nil
		}

		doc, err := d.store.FetchFile(ctx, path)
		if err != nil {
			if errors.Is(err, githost.ErrNotFound) {
				d.cache.Set(path, nil, "")
				return []byte(nil), nil
			}

			return nil, errors.Wrapf(err, "fetch %s", path)
		}

		d.cache.Set(path, doc.Content, doc.Version)
		return doc.Content, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

func (d *CMS) writeJSON(ctx context.Context, path string, body any, message string) error {
	raw, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", path)
	}

	// guard the write with the version token of the read the mutation was
	// computed from, so the whole read-modify-write cycle is conflict-checked,
	// not just the store's own fetch-then-put window
	version, versioned := "", false
	if _, v, ok := d.cache.Get(path); ok {
		version, versioned = v, true
	}

	// the cached read is suspect after any write attempt: on success it is
	// superseded, on conflict it was stale to begin with
	d.cache.Invalidate(path)

	if versioned {
		_, err = d.store.WriteFileWithVersion(ctx, path, raw, message, version)
	} else {
		_, err = d.store.WriteFile(ctx, path, raw, message)
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Posts read the posts document. A path that has never been written yields
// the typed empty document, never an error.
func (d *CMS) Posts(ctx context.Context) (*model.PostsDocument, error) {
	raw, err := d.readRaw(ctx, d.postsPath)
	if err != nil {
		return nil, err
	}

	doc := new(model.PostsDocument)
	if raw != nil {
		if err = json.Unmarshal(raw, doc); err != nil {
			return nil, errors.Wrapf(githost.ErrMalformedDocument,
				"parse %s: %v", d.postsPath, err)
		}
	}
	if doc.Posts == nil {
		doc.Posts = []model.Post{}
	}

	return doc, nil
}

// WritePosts write the posts document back, restamping lastUpdated.
func (d *CMS) WritePosts(ctx context.Context,
	doc *model.PostsDocument, message string) error {
	doc.LastUpdated = timestamp()
	return d.writeJSON(ctx, d.postsPath, doc, message)
}

// Categories read the categories document with the typed empty default.
func (d *CMS) Categories(ctx context.Context) (*model.CategoriesDocument, error) {
	raw, err := d.readRaw(ctx, d.categoriesPath)
	if err != nil {
		return nil, err
	}

	doc := new(model.CategoriesDocument)
	if raw != nil {
		if err = json.Unmarshal(raw, doc); err != nil {
			return nil, errors.Wrapf(githost.ErrMalformedDocument,
				"parse %s: %v", d.categoriesPath, err)
		}
	}
	if doc.Categories == nil {
		doc.Categories = []model.Category{}
	}

	return doc, nil
}

// WriteCategories write the categories document back, restamping lastUpdated.
func (d *CMS) WriteCategories(ctx context.Context,
	doc *model.CategoriesDocument, message string) error {
	doc.LastUpdated = timestamp()
	return d.writeJSON(ctx, d.categoriesPath, doc, message)
}

// Settings read the site settings document with the typed empty default.
func (d *CMS) Settings(ctx context.Context) (model.SiteSettings, error) {
	raw, err := d.readRaw(ctx, d.settingsPath)
	if err != nil {
		return nil, err
	}

	doc := model.SiteSettings{}
	if raw != nil {
		if err = json.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrapf(githost.ErrMalformedDocument,
				"parse %s: %v", d.settingsPath, err)
		}
	}

	return doc, nil
}

// WriteSettings write the settings document back, restamping lastUpdated.
func (d *CMS) WriteSettings(ctx context.Context,
	doc model.SiteSettings, message string) error {
	doc["lastUpdated"] = timestamp()
	return d.writeJSON(ctx, d.settingsPath, doc, message)
}

// UploadAsset upload an opaque binary asset under the same
// optimistic-concurrency discipline as the documents.
func (d *CMS) UploadAsset(ctx context.Context,
	path string, data []byte, message string) (*githost.WriteResult, error) {
	result, err := d.store.UploadBinary(ctx, path, data, message)
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s", path)
	}

	d.cache.Invalidate(path)
	return result, nil
}
