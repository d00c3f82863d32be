// Package snapshot implements the static tiers of the product source
// chain: JSON snapshot files fetched over HTTP or read from disk, and the
// embedded mock catalog that guarantees the chain never comes back empty.
package snapshot

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"axm-storefront/internal/model"
)

//go:embed mock_catalog.json
var embeddedCatalog []byte

// maxSnapshotSize caps a snapshot download.
const maxSnapshotSize = 16 << 20

// Config describes a snapshot tier.
type Config struct {
	// Name identifies the tier in logs ("primary", "vault").
	Name string

	// Location is an http(s) URL or a file path.
	Location string

	// ExtraBadges are added to every product served by this tier.
	ExtraBadges []model.Badge

	Normalize  model.NormalizeConfig
	HTTPClient *http.Client
}

// Source reads one snapshot.
type Source struct {
	name        string
	location    string
	data        []byte
	extraBadges []model.Badge
	norm        model.NormalizeConfig
	client      *http.Client
}

// New creates a snapshot source. An empty location yields a source that
// always fails with model.ErrNotConfigured.
func New(cfg Config) *Source {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	norm := cfg.Normalize
	if norm == (model.NormalizeConfig{}) {
		norm = model.DefaultNormalizeConfig()
	}
	name := cfg.Name
	if name == "" {
		name = "snapshot"
	}
	return &Source{
		name:        name,
		location:    strings.TrimSpace(cfg.Location),
		extraBadges: cfg.ExtraBadges,
		norm:        norm,
		client:      client,
	}
}

// NewEmbedded returns the built-in mock catalog tier. Products served from
// it are marked NEW and REBEL DROP, matching the storefront's offline mode.
func NewEmbedded(norm model.NormalizeConfig) *Source {
	return &Source{
		name:        "embedded",
		data:        embeddedCatalog,
		extraBadges: []model.Badge{model.BadgeNew, model.BadgeRebelDrop},
		norm:        norm,
	}
}

// FromBytes returns a tier serving a fixed JSON document. Used by tests and
// the CLI's resolve command.
func FromBytes(name string, data []byte, norm model.NormalizeConfig) *Source {
	return &Source{name: name, data: data, norm: norm}
}

// Name identifies the tier in logs.
func (s *Source) Name() string { return s.name }

// Products loads, parses and normalizes the snapshot. Fetch failures,
// malformed JSON and empty snapshots are errors.
func (s *Source) Products(ctx context.Context) ([]model.Product, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s snapshot: %w", s.name, err)
	}

	products, err := Parse(data, s.norm)
	if err != nil {
		return nil, fmt.Errorf("%s snapshot: %w", s.name, err)
	}

	for i := range products {
		for _, b := range s.extraBadges {
			products[i].Badges = model.AppendBadge(products[i].Badges, b)
		}
	}
	return products, nil
}

// Parse decodes a snapshot document (a flat JSON array of products).
func Parse(data []byte, norm model.NormalizeConfig) ([]model.Product, error) {
	var raws []rawProduct
	if err := json.Unmarshal(bytes.TrimSpace(data), &raws); err != nil {
		return nil, fmt.Errorf("parsing products: %w", err)
	}

	converted := make([]model.Product, 0, len(raws))
	for _, r := range raws {
		converted = append(converted, toModel(r))
	}

	products := model.NormalizeAll(converted, norm)
	if len(products) == 0 {
		return nil, model.ErrEmptySource
	}
	return products, nil
}

func (s *Source) load(ctx context.Context) ([]byte, error) {
	if s.data != nil {
		return s.data, nil
	}
	if s.location == "" {
		return nil, model.ErrNotConfigured
	}
	if strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://") {
		return s.fetch(ctx)
	}
	data, err := os.ReadFile(s.location)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.location, err)
	}
	return data, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, model.NewUpstreamError(s.name+" snapshot", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewUpstreamError(s.name+" snapshot",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.location))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}
