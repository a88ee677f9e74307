package models

import "encoding/json"

// Record is one flattened, timestamped entity produced by the normalizer.
type Record interface {
	RecordCategory() Category
	// CollectionTime is the collection timestamp of the raw document the record came from.
	CollectionTime() string
}

// DEX volume record discriminators.
const (
	DexTypeHistoricalTotal = "historical_total"
	DexTypeDexSpecific     = "dex_specific"
	DexTypeVolumeSummary   = "volume_summary"
)

// ProtocolTVLRecord is one protocol from the TVL listing.
type ProtocolTVLRecord struct {
	Name        *string      `json:"name"`
	ID          *string      `json:"id"`
	Symbol      *string      `json:"symbol"`
	URL         *string      `json:"url"`
	Description *string      `json:"description"`
	Chain       *string      `json:"chain"`
	Category    *string      `json:"category"`
	TVL         *json.Number `json:"tvl"`
	Change1D    *json.Number `json:"change_1d"`
	Change7D    *json.Number `json:"change_7d"`
	Change1M    *json.Number `json:"change_1m"`
	// Audits is a string count in most listings and a number in a few.
	Audits     any          `json:"audits"`
	AuditNote  *string      `json:"audit_note"`
	McapTVL    *json.Number `json:"mcap_tvl"`
	ForkedFrom any          `json:"forked_from"`
	Module     *string      `json:"module"`
	ListedAt   *json.Number `json:"listed_at"`
	Timestamp  string       `json:"timestamp"`
}

func (r ProtocolTVLRecord) RecordCategory() Category { return CategoryProtocolTVL }
func (r ProtocolTVLRecord) CollectionTime() string   { return r.Timestamp }

// DexHistoricalRecord is one point of the aggregate DEX volume time series.
// Timestamp is the point's own time; CollectedAt carries the document collection time.
type DexHistoricalRecord struct {
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
	TotalVolume *json.Number `json:"total_volume"`
	CollectedAt string       `json:"collection_timestamp"`
}

func (r DexHistoricalRecord) RecordCategory() Category { return CategoryDexVolume }
func (r DexHistoricalRecord) CollectionTime() string   { return r.CollectedAt }

// DexSpecificRecord is the 24h volume of one DEX on one chain.
type DexSpecificRecord struct {
	Type      string       `json:"type"`
	Chain     string       `json:"chain"`
	DexName   string       `json:"dex_name"`
	Volume24h any          `json:"volume_24h"`
	Change1D  *json.Number `json:"change_1d"`
	Change7D  *json.Number `json:"change_7d"`
	Change30D *json.Number `json:"change_30d"`
	Timestamp string       `json:"timestamp"`
}

func (r DexSpecificRecord) RecordCategory() Category { return CategoryDexVolume }
func (r DexSpecificRecord) CollectionTime() string   { return r.Timestamp }

// DexSummaryRecord carries the windowed volume totals of the first protocol entry.
type DexSummaryRecord struct {
	Type             string       `json:"type"`
	Total24h         *json.Number `json:"total_24h"`
	Total48hTo24h    *json.Number `json:"total_48h_to_24h"`
	Total7d          *json.Number `json:"total_7d"`
	Total14dTo7d     *json.Number `json:"total_14d_to_7d"`
	Total30d         *json.Number `json:"total_30d"`
	Total60dTo30d    *json.Number `json:"total_60d_to_30d"`
	Total1y          *json.Number `json:"total_1y"`
	TotalAllTime     *json.Number `json:"total_all_time"`
	Average1y        *json.Number `json:"average_1y"`
	Change1D         *json.Number `json:"change_1d"`
	Change7D         *json.Number `json:"change_7d"`
	Change1M         *json.Number `json:"change_1m"`
	Change7dOver7d   *json.Number `json:"change_7d_over_7d"`
	Change30dOver30d *json.Number `json:"change_30d_over_30d"`
	Timestamp        string       `json:"timestamp"`
}

func (r DexSummaryRecord) RecordCategory() Category { return CategoryDexVolume }
func (r DexSummaryRecord) CollectionTime() string   { return r.Timestamp }

// Predictions is the yield-direction forecast attached to a pool. Every field may be null.
type Predictions struct {
	PredictedClass       *string      `json:"predicted_class"`
	PredictedProbability *json.Number `json:"predicted_probability"`
	BinnedConfidence     *json.Number `json:"binned_confidence"`
}

// YieldPoolRecord is one yield pool.
type YieldPoolRecord struct {
	Pool            *string      `json:"pool"`
	Chain           *string      `json:"chain"`
	Project         *string      `json:"project"`
	Symbol          *string      `json:"symbol"`
	TVLUsd          *json.Number `json:"tvl_usd"`
	APY             *json.Number `json:"apy"`
	APYBase         *json.Number `json:"apy_base"`
	APYReward       *json.Number `json:"apy_reward"`
	APYPct1D        *json.Number `json:"apy_pct_1d"`
	APYPct7D        *json.Number `json:"apy_pct_7d"`
	APYPct30D       *json.Number `json:"apy_pct_30d"`
	APYMean30d      *json.Number `json:"apy_mean_30d"`
	Stablecoin      any          `json:"stablecoin"`
	ILRisk          *string      `json:"il_risk"`
	Exposure        *string      `json:"exposure"`
	RewardTokens    any          `json:"reward_tokens"`
	UnderlyingToken any          `json:"underlying_tokens"`
	PoolMeta        *string      `json:"pool_meta"`
	Predictions     Predictions  `json:"predictions"`
	Timestamp       string       `json:"timestamp"`
}

func (r YieldPoolRecord) RecordCategory() Category { return CategoryYieldPool }
func (r YieldPoolRecord) CollectionTime() string   { return r.Timestamp }

// StablecoinRecord is one pegged asset. The circulating_prev_* fields are absolute supplies at the
// previous day, week and month, not deltas.
type StablecoinRecord struct {
	ID                   *string      `json:"id"`
	Name                 *string      `json:"name"`
	Symbol               *string      `json:"symbol"`
	GeckoID              *string      `json:"gecko_id"`
	Price                *json.Number `json:"price"`
	Circulating          *json.Number `json:"circulating"`
	MarketCap            *json.Number `json:"market_cap"`
	Chains               any          `json:"chains"`
	PegType              *string      `json:"peg_type"`
	PegMechanism         *string      `json:"peg_mechanism"`
	PriceChange24h       *json.Number `json:"price_change_24h"`
	MarketCapChange24h   *json.Number `json:"market_cap_change_24h"`
	CirculatingPrevDay   *json.Number `json:"circulating_prev_day"`
	CirculatingPrevWeek  *json.Number `json:"circulating_prev_week"`
	CirculatingPrevMonth *json.Number `json:"circulating_prev_month"`
	Timestamp            string       `json:"timestamp"`
}

func (r StablecoinRecord) RecordCategory() Category { return CategoryStablecoin }
func (r StablecoinRecord) CollectionTime() string   { return r.Timestamp }

// ProtocolFeeRecord is one protocol's fee and revenue figures.
type ProtocolFeeRecord struct {
	Name            *string      `json:"name"`
	Slug            *string      `json:"slug"`
	Category        *string      `json:"category"`
	Fees24h         *json.Number `json:"fees_24h"`
	Revenue24h      *json.Number `json:"revenue_24h"`
	FeesChange1D    *json.Number `json:"fees_change_1d"`
	RevenueChange1D *json.Number `json:"revenue_change_1d"`
	Timestamp       string       `json:"timestamp"`
}

func (r ProtocolFeeRecord) RecordCategory() Category { return CategoryProtocolFee }
func (r ProtocolFeeRecord) CollectionTime() string   { return r.Timestamp }
