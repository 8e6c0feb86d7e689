// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtreilly/goarxiv"

	"github.com/pdiddy/arxiv-flatten/internal/httputil"
	"github.com/pdiddy/arxiv-flatten/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// DefaultUserAgent identifies requests when no User-Agent is configured.
const DefaultUserAgent = "arxiv-flatten/0.1"

// Catalog resolves an arXiv identifier to the paper's metadata, including
// the URL of its source archive.
type Catalog interface {
	Lookup(ctx context.Context, id string) (*types.Paper, error)
}

// NewCatalog returns the catalog selected by cfg.Catalog. An empty backend
// selects the Atom API catalog.
func NewCatalog(client *http.Client, cfg types.FlattenConfig) (Catalog, error) {
	switch cfg.Catalog {
	case "", types.CatalogAtom:
		return NewAtomCatalog(client, cfg.HTTPConfig), nil
	case types.CatalogGoarxiv:
		return NewGoarxivCatalog(cfg.UserAgent)
	default:
		return nil, fmt.Errorf("unsupported catalog %q: use %s or %s",
			cfg.Catalog, types.CatalogAtom, types.CatalogGoarxiv)
	}
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// AtomCatalog queries the arXiv export API directly and decodes its Atom feed.
type AtomCatalog struct {
	client *http.Client
	cfg    types.HTTPConfig
}

// NewAtomCatalog creates an AtomCatalog using client for requests.
func NewAtomCatalog(client *http.Client, cfg types.HTTPConfig) *AtomCatalog {
	return &AtomCatalog{client: client, cfg: cfg}
}

// Lookup fetches the Atom entry for id and derives its e-print URL.
func (c *AtomCatalog) Lookup(ctx context.Context, id string) (*types.Paper, error) {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(id))

	resp, err := httputil.Get(ctx, c.client, apiURL, c.cfg.UserAgent, c.cfg.Retries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	// The API answers unknown IDs with an entry that carries no <id>.
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].ID) == "" {
		return nil, fmt.Errorf("no catalog entry for arXiv ID %s", id)
	}

	entry := feed.Entries[0]
	abs := strings.TrimSpace(entry.ID)
	src, err := EPrintURL(abs)
	if err != nil {
		return nil, err
	}

	p := &types.Paper{
		ID:          id,
		Title:       strings.Join(strings.Fields(entry.Title), " "),
		AbstractURL: abs,
		SourceURL:   src,
	}
	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		p.Published = t
	}
	return p, nil
}

// GoarxivCatalog resolves identifiers through the goarxiv client.
type GoarxivCatalog struct {
	client *goarxiv.Client
}

// NewGoarxivCatalog creates a goarxiv-backed catalog that identifies itself
// with userAgent.
func NewGoarxivCatalog(userAgent string) (*GoarxivCatalog, error) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	c, err := goarxiv.New(goarxiv.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("creating arxiv client: %w", err)
	}
	return &GoarxivCatalog{client: c}, nil
}

// Lookup fetches the article for id and derives its e-print URL.
func (c *GoarxivCatalog) Lookup(ctx context.Context, id string) (*types.Paper, error) {
	article, err := c.client.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching article %s: %w", id, err)
	}
	if article == nil {
		return nil, fmt.Errorf("no catalog entry for arXiv ID %s", id)
	}

	abs := article.AbstractURL()
	src, err := EPrintURL(abs)
	if err != nil {
		return nil, err
	}

	p := &types.Paper{
		ID:          article.BaseID(),
		Title:       strings.TrimSpace(article.Title),
		Published:   article.Published,
		AbstractURL: abs,
		SourceURL:   src,
	}
	for _, a := range article.Authors {
		p.Authors = append(p.Authors, a.Name)
	}
	return p, nil
}
