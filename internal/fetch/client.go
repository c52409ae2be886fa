package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/liminos-studio/site/internal/models"
)

// Resource paths relative to the asset base.
const (
	ProjectsPath = "projects.json"
	I18nDir      = "i18n"
)

// Client fetches site data relative to an asset base URL.
type Client struct {
	http *http.Client
	base *url.URL
}

// New creates a client for base, which must be an absolute http(s) or file
// URL. A nil httpClient uses http.DefaultClient.
func New(base string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing asset base %q: %w", base, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("asset base %q must be an absolute URL", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, base: u}, nil
}

// NewDir creates a client that reads assets from a local directory.
func NewDir(dir string) *Client {
	return &Client{
		http: &http.Client{Transport: http.NewFileTransport(http.Dir(dir))},
		base: &url.URL{Scheme: "file", Path: "/"},
	}
}

// NewFS creates a client that reads assets from fsys.
func NewFS(fsys fs.FS) *Client {
	return &Client{
		http: &http.Client{Transport: http.NewFileTransportFS(fsys)},
		base: &url.URL{Scheme: "file", Path: "/"},
	}
}

// Base returns the asset base URL.
func (c *Client) Base() string { return c.base.String() }

// Projects fetches and decodes projects.json.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.getJSON(ctx, ProjectsPath, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Translations fetches and decodes i18n/<lang>.json. Every value must be a
// string.
func (c *Client) Translations(ctx context.Context, lang string) (models.TranslationTable, error) {
	var table models.TranslationTable
	if err := c.getJSON(ctx, path.Join(I18nDir, url.PathEscape(lang)+".json"), &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = models.TranslationTable{}
	}
	return table, nil
}

// Raw fetches rel and returns the body bytes after the status check.
func (c *Client) Raw(ctx context.Context, rel string) ([]byte, error) {
	resp, u, err := c.get(ctx, rel)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DataLoadError{URL: u, Err: err}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, rel string, v any) error {
	resp, u, err := c.get(ctx, rel)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{URL: u, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, rel string) (*http.Response, string, error) {
	ref, err := url.Parse(rel)
	if err != nil {
		return nil, rel, &DataLoadError{URL: rel, Err: err}
	}
	u := c.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, &DataLoadError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, u, &DataLoadError{URL: u, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, u, &DataLoadError{URL: u, Status: resp.StatusCode}
	}
	return resp, u, nil
}
