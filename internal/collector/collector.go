package collector

import (
	"context"
	"time"

	"llamaworker/internal/config"
	"llamaworker/internal/document"
	"llamaworker/internal/logger"
	"llamaworker/internal/models"
	"llamaworker/pkg/metadata"
)

// Collector fetches each category sequentially and persists the raw payloads.
// A failed fetch yields nil; it is logged and never aborts a run.
type Collector struct {
	cfg       *config.CollectorConfig
	fetcher   *Fetcher
	endpoints *Endpoints
	store     *Store
	log       *logger.Logger
	now       func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock overrides the clock used for collection timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithFetcher overrides the HTTP fetcher.
func WithFetcher(f *Fetcher) Option {
	return func(c *Collector) { c.fetcher = f }
}

// New creates a collector with dependencies built from cfg.
func New(cfg *config.CollectorConfig, log *logger.Logger, opts ...Option) *Collector {
	c := &Collector{
		cfg:       cfg,
		fetcher:   NewFetcherWithConfig(cfg),
		endpoints: NewEndpoints(cfg),
		store:     NewStore(cfg),
		log:       log,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// fetch returns the decoded payload of url, or nil on any failure.
func (c *Collector) fetch(ctx context.Context, url string) any {
	payload, status, duration, err := c.fetcher.FetchJSONWithMetrics(ctx, url)
	if err != nil {
		c.log.Error("fetch failed", "url", url, "status", status, "duration", duration, "error", err)

		return nil
	}

	c.log.Debug("fetched", "url", url, "status", status, "duration", duration)

	return payload
}

// Fetch retrieves one category listing and persists it. It returns nil when no data was obtained.
func (c *Collector) Fetch(ctx context.Context, category models.Category) *models.Envelope {
	info := category.MustInfo()
	url := c.endpoints.CategoryURL(category)

	c.log.Info("fetching category", "category", category, "url", url)

	payload := c.fetch(ctx, url)
	if payload == nil {
		c.log.Warn("no data for category", "category", category)

		return nil
	}

	env := &models.Envelope{
		Metadata: c.newMetadata(info.Group, info.Subgroup, c.endpoints.BaseFor(category), url,
			metadata.DataTypeRaw, info.DataTypeDescription, info.Description, info.SubgroupDescription, info.MetricsIncluded),
		Data: payload,
	}

	path, err := c.persist(env, info.Group, info.Subgroup, info.Subgroup)
	if err != nil {
		c.log.Error("failed to persist category", "category", category, "error", err)

		return env
	}

	c.log.Info("category saved", "category", category, "path", path,
		"count", countEntries(env, info))

	return env
}

// FetchProtocolTVL fetches protocol TVL data.
func (c *Collector) FetchProtocolTVL(ctx context.Context) *models.Envelope {
	return c.Fetch(ctx, models.CategoryProtocolTVL)
}

// FetchDexVolumes fetches DEX trading volumes.
func (c *Collector) FetchDexVolumes(ctx context.Context) *models.Envelope {
	return c.Fetch(ctx, models.CategoryDexVolume)
}

// FetchYieldPools fetches yield information for liquidity pools.
func (c *Collector) FetchYieldPools(ctx context.Context) *models.Envelope {
	return c.Fetch(ctx, models.CategoryYieldPool)
}

// FetchStablecoins fetches stablecoin market data.
func (c *Collector) FetchStablecoins(ctx context.Context) *models.Envelope {
	return c.Fetch(ctx, models.CategoryStablecoin)
}

// FetchFees fetches fee and revenue metrics.
func (c *Collector) FetchFees(ctx context.Context) *models.Envelope {
	return c.Fetch(ctx, models.CategoryProtocolFee)
}

// FetchDexDetails fetches the value-locked series, volume summary and fee summary of one DEX
// and persists them as one document. Each part is nil when its fetch failed.
func (c *Collector) FetchDexDetails(ctx context.Context, slug string) *models.Envelope {
	c.log.Info("fetching dex details", "dex", slug)

	details := models.DexDetails{
		TVL:    c.fetch(ctx, c.endpoints.ProtocolURL(slug)),
		Volume: c.fetch(ctx, c.endpoints.DexSummaryURL(slug)),
		Fees:   c.fetch(ctx, c.endpoints.FeeSummaryURL(slug)),
	}

	info := models.CategoryDexVolume.MustInfo()

	env := &models.Envelope{
		Metadata: c.newMetadata(models.DexDetailsGroup, models.DexDetailsSubgroup, c.cfg.BaseURL, slug,
			metadata.DataTypeAggregated, models.DexDetailsDataTypeDescription, info.Description,
			models.DexDetailsDescription, info.MetricsIncluded),
		Data: details,
	}
	env.Metadata.ProtocolInfo = metadata.NewDexProtocolInfo(slug)

	path, err := c.persist(env, models.DexDetailsGroup, models.DexDetailsSubgroup, slug)
	if err != nil {
		c.log.Error("failed to persist dex details", "dex", slug, "error", err)

		return env
	}

	c.log.Info("dex details saved", "dex", slug, "path", path,
		"tvl", details.TVL != nil, "volume", details.Volume != nil, "fees", details.Fees != nil)

	return env
}

// FetchAllDexDetails fetches details for every configured major DEX.
func (c *Collector) FetchAllDexDetails(ctx context.Context) map[string]*models.Envelope {
	c.log.Info("fetching data for all major dexs", "count", len(c.cfg.MajorDexs))

	out := make(map[string]*models.Envelope, len(c.cfg.MajorDexs))
	for _, slug := range c.cfg.MajorDexs {
		out[slug] = c.FetchDexDetails(ctx, slug)
	}

	return out
}

// FetchAll runs every category fetch then every DEX detail fetch, and summarizes the counts.
func (c *Collector) FetchAll(ctx context.Context) models.CollectionSummary {
	envelopes := make(map[models.Category]*models.Envelope)
	for _, category := range models.AllCategories() {
		envelopes[category] = c.Fetch(ctx, category)
	}

	details := c.FetchAllDexDetails(ctx)

	c.log.Info("all data fetching completed")

	return c.Summarize(envelopes, details)
}

// Summarize builds the run summary. Absent payloads and missing list fields count as zero.
func (c *Collector) Summarize(envelopes map[models.Category]*models.Envelope, details map[string]*models.Envelope) models.CollectionSummary {
	groups := make(map[string]bool)

	summary := models.CollectionSummary{
		Collection: models.CollectionInfo{
			Timestamp:     models.FormatTimestamp(c.now()),
			Status:        "completed",
			DexCount:      len(c.cfg.MajorDexs),
			SupportedDexs: append([]string(nil), c.cfg.MajorDexs...),
		},
		Data: make(map[string]models.CategorySummary),
	}

	for _, category := range models.AllCategories() {
		info := category.MustInfo()
		groups[info.Group] = true

		cs := models.CategorySummary{DataType: info.SummaryDataType}

		if env := envelopes[category]; env != nil {
			source := env.Metadata.SourceInfo
			cs.Source = &source
			cs.Count = countEntries(env, info)
		}

		if category == models.CategoryDexVolume {
			cs.MajorDexs = make(map[string]*metadata.SourceInfo)

			for slug, env := range details {
				if env == nil {
					continue
				}

				source := env.Metadata.SourceInfo
				cs.MajorDexs[slug] = &source
			}
		}

		summary.Data[category.SummaryKey()] = cs
	}

	summary.Collection.TotalCategories = len(groups)

	return summary
}

func (c *Collector) newMetadata(group, subgroup, apiBase, url, dataType, dataTypeDesc, desc, subDesc string, metrics []string) metadata.Metadata {
	return metadata.Metadata{
		CollectionInfo: metadata.CollectionInfo{
			Timestamp:        models.FormatTimestamp(c.now()),
			CollectionMethod: metadata.CollectionMethod,
			CollectionStatus: metadata.StatusSuccess,
			DataFreshness:    metadata.DataFreshness,
		},
		SourceInfo: metadata.SourceInfo{
			APIBase:             apiBase,
			Endpoint:            EndpointName(url),
			DataType:            dataType,
			DataTypeDescription: dataTypeDesc,
			DataFormat:          metadata.DataFormat,
		},
		CategoryInfo: metadata.CategoryInfo{
			MainCategory:           group,
			Subcategory:            subgroup,
			Description:            desc,
			SubcategoryDescription: subDesc,
			MetricsIncluded:        metrics,
		},
	}
}

func (c *Collector) persist(env *models.Envelope, group, subgroup, name string) (string, error) {
	if err := metadata.Sign(&env.Metadata, env.Data); err != nil {
		return "", err
	}

	return c.store.Save(env, group, subgroup, name)
}

func countEntries(env *models.Envelope, info models.CategoryInfo) int {
	return document.New(env.Data, env.Metadata.CollectionInfo.Timestamp).CountAt(dataRelative(info.ContainerPath))
}

// dataRelative rewrites an envelope container path ("$.data.x") to one rooted at the payload ("$.x").
func dataRelative(path string) string {
	const prefix = "$.data"

	if path == prefix {
		return "$"
	}

	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return "$" + path[len(prefix):]
	}

	return path
}
