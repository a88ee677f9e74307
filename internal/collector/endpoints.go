package collector

import (
	"net/url"
	"strings"

	"llamaworker/internal/config"
	"llamaworker/internal/models"
)

// Endpoints resolves the fixed URL set of the analytics API.
type Endpoints struct {
	cfg *config.CollectorConfig
}

// NewEndpoints creates an endpoint resolver over the configured hosts.
func NewEndpoints(cfg *config.CollectorConfig) *Endpoints {
	return &Endpoints{cfg: cfg}
}

// BaseFor returns the host URL serving a category.
func (e *Endpoints) BaseFor(category models.Category) string {
	return e.cfg.BaseURLFor(category.MustInfo().Base)
}

// CategoryURL returns the listing URL of a category.
func (e *Endpoints) CategoryURL(category models.Category) string {
	info := category.MustInfo()

	return join(e.cfg.BaseURLFor(info.Base), info.Endpoint)
}

// ProtocolURL returns the aggregate value-locked series of one protocol.
func (e *Endpoints) ProtocolURL(slug string) string {
	return join(e.cfg.BaseURL, "/protocol/"+url.PathEscape(slug))
}

// DexSummaryURL returns the trading-volume summary of one DEX.
func (e *Endpoints) DexSummaryURL(slug string) string {
	return join(e.cfg.BaseURL, "/summary/dexs/"+url.PathEscape(slug))
}

// FeeSummaryURL returns the fee/revenue summary of one protocol.
func (e *Endpoints) FeeSummaryURL(slug string) string {
	return join(e.cfg.BaseURL, "/summary/fees/"+url.PathEscape(slug))
}

// EndpointName is the last path segment of a URL, recorded in document metadata.
func EndpointName(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}

func join(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
