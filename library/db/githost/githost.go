// Package githost wraps a Git hosting provider's repository contents API.
//
// Documents are versioned blobs addressed by their repository path. Every
// write is guarded by the blob's version token (optimistic concurrency):
// a stale token fails with ErrConflict and the caller must re-run its whole
// read-mutate-write cycle. The client never retries on its own, since a
// retry against a stale read could re-apply a mutation over data the caller
// no longer has an accurate picture of.
package githost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
)

// DefaultAPI default contents API endpoint
const DefaultAPI = "https://api.github.com"

// Client authenticated client for one repository on the content store.
type Client struct {
	api     string
	owner   string
	repo    string
	branch  string
	token   string
	httpcli *http.Client
}

// Document a versioned blob fetched from the store.
type Document struct {
	// Path repository path of the blob
	Path string
	// Version opaque token assigned by the store on each successful write,
	// required to supersede the content safely
	Version string
	// Content decoded file content
	Content []byte
}

// WriteResult tokens observable after a successful write.
type WriteResult struct {
	// Version the new version token of the blob
	Version string
	// Commit identifier of the commit that recorded the write
	Commit string
}

// Option configure the client
type Option func(*Client) error

// WithAPI override the contents API endpoint
func WithAPI(api string) Option {
	return func(c *Client) error {
		if api == "" {
			return errors.New("empty api endpoint")
		}

		c.api = strings.TrimRight(api, "/")
		return nil
	}
}

// WithBranch attribute writes to a branch other than the store's primary
func WithBranch(branch string) Option {
	return func(c *Client) error {
		c.branch = branch
		return nil
	}
}

// WithHTTPClient override the underlying http client
func WithHTTPClient(cli *http.Client) Option {
	return func(c *Client) error {
		if cli == nil {
			return errors.New("nil http client")
		}

		c.httpcli = cli
		return nil
	}
}

// New create a contents API client for owner/repo authenticated by token.
func New(owner, repo, token string, opts ...Option) (*Client, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}

	c := &Client{
		api:    DefaultAPI,
		owner:  owner,
		repo:   repo,
		branch: "main",
		token:  token,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "apply option")
		}
	}

	if c.httpcli == nil {
		var err error
		if c.httpcli, err = gutils.NewHTTPClient(
			gutils.WithHTTPClientTimeout(30 * time.Second),
		); err != nil {
			return nil, errors.Wrap(err, "new http client")
		}
	}

	return c, nil
}

type contentResp struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type writeReq struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type deleteReq struct {
	Message string `json:"message"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha"`
}

type writeResp struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

type errorResp struct {
	Message string `json:"message"`
}

func (c *Client) contentsURL(path string) string {
	return c.api + "/repos/" + c.owner + "/" + c.repo +
		"/contents/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(ctx context.Context,
	method, url string, body []byte) (int, []byte, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "new request %s %s", method, url)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpcli.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody := new(bytes.Buffer)
	if _, err = respBody.ReadFrom(resp.Body); err != nil {
		return 0, nil, &TransportError{Err: err}
	}

	return resp.StatusCode, respBody.Bytes(), nil
}

// classify map a non-success response to the error taxonomy.
func classify(status int, body []byte) error {
	msg := new(errorResp)
	_ = json.Unmarshal(body, msg)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrapf(ErrAuthentication, "[%d] %s", status, msg.Message)
	case http.StatusNotFound:
		return errors.WithStack(ErrNotFound)
	case http.StatusConflict:
		return errors.Wrapf(ErrConflict, "%s", msg.Message)
	default:
		return &RepositoryError{StatusCode: status, Message: msg.Message}
	}
}

// FetchFile read a file and its current version token.
//
// A missing file fails with ErrNotFound; the typed empty-document defaults
// live one layer up so mutators never see a 404 themselves.
func (c *Client) FetchFile(ctx context.Context, path string) (*Document, error) {
	status, body, err := c.do(ctx,
		http.MethodGet, c.contentsURL(path)+"?ref="+c.branch, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classify(status, body)
	}

	cr := new(contentResp)
	if err = json.Unmarshal(body, cr); err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "decode response for %s: %v", path, err)
	}

	raw, err := base64.StdEncoding.DecodeString(stripWhitespace(cr.Content))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "decode content of %s: %v", path, err)
	}

	return &Document{
		Path:    path,
		Version: cr.SHA,
		Content: raw,
	}, nil
}

// FetchVersion read the current version token of a file, or empty string
// when the file does not exist yet.
func (c *Client) FetchVersion(ctx context.Context, path string) (string, error) {
	doc, err := c.FetchFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}

		return "", errors.Wrapf(err, "fetch version of %s", path)
	}

	return doc.Version, nil
}

// WriteFile create or update a file.
//
// The current version token is fetched and attached only when non-empty,
// so creation and update share the same call.
func (c *Client) WriteFile(ctx context.Context,
	path string, content []byte, message string) (*WriteResult, error) {
	version, err := c.FetchVersion(ctx, path)
	if err != nil {
		return nil, err
	}

	return c.WriteFileWithVersion(ctx, path, content, message, version)
}

// WriteFileWithVersion write a file guarded by an explicit version token.
// An empty token means the file is being created.
func (c *Client) WriteFileWithVersion(ctx context.Context,
	path string, content []byte, message, version string) (*WriteResult, error) {
	reqBody, err := json.Marshal(writeReq{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     version,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal write request")
	}

	status, body, err := c.do(ctx, http.MethodPut, c.contentsURL(path), reqBody)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, classify(status, body)
	}

	wr := new(writeResp)
	if err = json.Unmarshal(body, wr); err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "decode write response for %s: %v", path, err)
	}

	return &WriteResult{
		Version: wr.Content.SHA,
		Commit:  wr.Commit.SHA,
	}, nil
}

// UploadBinary write an opaque byte payload with the same
// optimistic-concurrency discipline as WriteFile.
func (c *Client) UploadBinary(ctx context.Context,
	path string, data []byte, message string) (*WriteResult, error) {
	return c.WriteFile(ctx, path, data, message)
}

// DeleteFile remove a file. Fails with ErrNotFound when the file does not
// exist, since deletion requires a current version token.
func (c *Client) DeleteFile(ctx context.Context, path, message string) error {
	version, err := c.FetchVersion(ctx, path)
	if err != nil {
		return err
	}
	if version == "" {
		return errors.Wrapf(ErrNotFound, "delete %s", path)
	}

	reqBody, err := json.Marshal(deleteReq{
		Message: message,
		Branch:  c.branch,
		SHA:     version,
	})
	if err != nil {
		return errors.Wrap(err, "marshal delete request")
	}

	status, body, err := c.do(ctx, http.MethodDelete, c.contentsURL(path), reqBody)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return classify(status, body)
	}

	return nil
}

// stripWhitespace the store wraps base64 payloads with newlines
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
