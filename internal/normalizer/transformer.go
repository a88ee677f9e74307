package normalizer

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"llamaworker/internal/document"
	"llamaworker/internal/models"
)

// rule maps one validated raw document to flat records. Rules only read the document.
type rule func(doc *document.RawDocument, container any) []models.Record

// Transformer dispatches a raw document to its category's rule.
type Transformer struct {
	validator *Validator
	rules     map[models.Category]rule
}

// NewTransformer creates a transformer holding the five category rules.
func NewTransformer() *Transformer {
	return &Transformer{
		validator: NewValidator(),
		rules: map[models.Category]rule{
			models.CategoryProtocolTVL: transformProtocols,
			models.CategoryDexVolume:   transformDexVolumes,
			models.CategoryYieldPool:   transformYieldPools,
			models.CategoryStablecoin:  transformStablecoins,
			models.CategoryProtocolFee: transformFees,
		},
	}
}

// Transform applies the rule of category to doc. Invalid or absent input yields an empty result.
func (t *Transformer) Transform(category models.Category, doc *document.RawDocument) (records []models.Record) {
	if err := t.validator.Validate(category, doc); err != nil {
		return nil
	}

	apply, ok := t.rules[category]
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			records = nil
		}
	}()

	container, err := doc.Lookup(t.validator.ContainerPath(category))
	if err != nil {
		return nil
	}

	return apply(doc, container)
}

func objects(container any) []map[string]any {
	list, _ := container.([]any)

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}

	return out
}

func transformProtocols(doc *document.RawDocument, container any) []models.Record {
	var records []models.Record

	for _, p := range objects(container) {
		records = append(records, models.ProtocolTVLRecord{
			Name:        document.String(p, "name"),
			ID:          document.String(p, "id"),
			Symbol:      document.String(p, "symbol"),
			URL:         document.String(p, "url"),
			Description: document.String(p, "description"),
			Chain:       document.String(p, "chain"),
			Category:    document.String(p, "category"),
			TVL:         document.Number(p, "tvl"),
			Change1D:    document.Number(p, "change_1d"),
			Change7D:    document.Number(p, "change_7d"),
			Change1M:    document.Number(p, "change_1m"),
			Audits:      document.Value(p, "audits"),
			AuditNote:   document.String(p, "audit_note"),
			McapTVL:     document.Number(p, "mcaptvl"),
			ForkedFrom:  document.Value(p, "forkedFrom"),
			Module:      document.String(p, "module"),
			ListedAt:    document.Number(p, "listedAt"),
			Timestamp:   doc.CollectedAt,
		})
	}

	return records
}

// transformDexVolumes emits historical points, then per-chain DEX volumes, then the summary.
// Only the first protocol entry feeds the dex_specific and volume_summary sections.
func transformDexVolumes(doc *document.RawDocument, container any) []models.Record {
	data, _ := container.(map[string]any)

	var records []models.Record

	for _, point := range document.List(data, "totalDataChart") {
		pair, ok := point.([]any)
		if !ok || len(pair) < 2 {
			continue
		}

		ts, ok := epochToISO(pair[0])
		if !ok {
			continue
		}

		records = append(records, models.DexHistoricalRecord{
			Type:        models.DexTypeHistoricalTotal,
			Timestamp:   ts,
			TotalVolume: document.AsNumber(pair[1]),
			CollectedAt: doc.CollectedAt,
		})
	}

	first := document.FirstObject(document.List(data, "protocols"))
	if first == nil {
		return records
	}

	breakdown := document.Object(first, "breakdown24h")
	for _, chain := range sortedKeys(breakdown) {
		dexs, ok := breakdown[chain].(map[string]any)
		if !ok {
			continue
		}

		for _, dex := range sortedKeys(dexs) {
			records = append(records, models.DexSpecificRecord{
				Type:      models.DexTypeDexSpecific,
				Chain:     chain,
				DexName:   dex,
				Volume24h: dexs[dex],
				Change1D:  document.Number(first, "change_1d"),
				Change7D:  document.Number(first, "change_7d"),
				Change30D: document.Number(first, "change_1m"),
				Timestamp: doc.CollectedAt,
			})
		}
	}

	records = append(records, models.DexSummaryRecord{
		Type:             models.DexTypeVolumeSummary,
		Total24h:         document.Number(first, "total24h"),
		Total48hTo24h:    document.Number(first, "total48hto24h"),
		Total7d:          document.Number(first, "total7d"),
		Total14dTo7d:     document.Number(first, "total14dto7d"),
		Total30d:         document.Number(first, "total30d"),
		Total60dTo30d:    document.Number(first, "total60dto30d"),
		Total1y:          document.Number(first, "total1y"),
		TotalAllTime:     document.Number(first, "totalAllTime"),
		Average1y:        document.Number(first, "average1y"),
		Change1D:         document.Number(first, "change_1d"),
		Change7D:         document.Number(first, "change_7d"),
		Change1M:         document.Number(first, "change_1m"),
		Change7dOver7d:   document.Number(first, "change_7dover7d"),
		Change30dOver30d: document.Number(first, "change_30dover30d"),
		Timestamp:        doc.CollectedAt,
	})

	return records
}

func transformYieldPools(doc *document.RawDocument, container any) []models.Record {
	var records []models.Record

	for _, p := range objects(container) {
		predictions := document.Object(p, "predictions")

		records = append(records, models.YieldPoolRecord{
			Pool:            document.String(p, "pool"),
			Chain:           document.String(p, "chain"),
			Project:         document.String(p, "project"),
			Symbol:          document.String(p, "symbol"),
			TVLUsd:          document.Number(p, "tvlUsd"),
			APY:             document.Number(p, "apy"),
			APYBase:         document.Number(p, "apyBase"),
			APYReward:       document.Number(p, "apyReward"),
			APYPct1D:        document.Number(p, "apyPct1D"),
			APYPct7D:        document.Number(p, "apyPct7D"),
			APYPct30D:       document.Number(p, "apyPct30D"),
			APYMean30d:      document.Number(p, "apyMean30d"),
			Stablecoin:      document.Value(p, "stablecoin"),
			ILRisk:          document.String(p, "ilRisk"),
			Exposure:        document.String(p, "exposure"),
			RewardTokens:    document.Value(p, "rewardTokens"),
			UnderlyingToken: document.Value(p, "underlyingTokens"),
			PoolMeta:        document.String(p, "poolMeta"),
			Predictions: models.Predictions{
				PredictedClass:       document.String(predictions, "predictedClass"),
				PredictedProbability: document.Number(predictions, "predictedProbability"),
				BinnedConfidence:     document.Number(predictions, "binnedConfidence"),
			},
			Timestamp: doc.CollectedAt,
		})
	}

	return records
}

// transformStablecoins reads supply figures keyed by the asset's peg type (e.g. "peggedUSD").
func transformStablecoins(doc *document.RawDocument, container any) []models.Record {
	var records []models.Record

	for _, a := range objects(container) {
		pegType := document.String(a, "pegType")

		records = append(records, models.StablecoinRecord{
			ID:                   document.String(a, "id"),
			Name:                 document.String(a, "name"),
			Symbol:               document.String(a, "symbol"),
			GeckoID:              document.String(a, "gecko_id"),
			Price:                document.Number(a, "price"),
			Circulating:          pegged(a, "circulating", pegType),
			MarketCap:            document.Number(a, "mcap"),
			Chains:               document.Value(a, "chains"),
			PegType:              pegType,
			PegMechanism:         document.String(a, "pegMechanism"),
			PriceChange24h:       document.Number(a, "priceChange24h"),
			MarketCapChange24h:   document.Number(a, "mcapChange24h"),
			CirculatingPrevDay:   pegged(a, "circulatingPrevDay", pegType),
			CirculatingPrevWeek:  pegged(a, "circulatingPrevWeek", pegType),
			CirculatingPrevMonth: pegged(a, "circulatingPrevMonth", pegType),
			Timestamp:            doc.CollectedAt,
		})
	}

	return records
}

func transformFees(doc *document.RawDocument, container any) []models.Record {
	var records []models.Record

	for _, p := range objects(container) {
		records = append(records, models.ProtocolFeeRecord{
			Name:            document.String(p, "name"),
			Slug:            document.String(p, "slug"),
			Category:        document.String(p, "category"),
			Fees24h:         document.Number(p, "total24h"),
			Revenue24h:      document.Number(p, "revenue24h"),
			FeesChange1D:    document.Number(p, "change_1d"),
			RevenueChange1D: document.Number(p, "revenueChange_1d"),
			Timestamp:       doc.CollectedAt,
		})
	}

	return records
}

// pegged returns obj[key][pegType] as a number.
func pegged(obj map[string]any, key string, pegType *string) *json.Number {
	if pegType == nil {
		return nil
	}

	return document.Number(document.Object(obj, key), *pegType)
}

// epochToISO converts epoch seconds (number or numeric string) to TimestampLayout.
// Points outside years 0-9999 have no ISO-8601 form and are rejected.
func epochToISO(v any) (string, bool) {
	var n *json.Number

	if s, ok := v.(string); ok {
		num := json.Number(s)
		n = &num
	} else {
		n = document.AsNumber(v)
	}

	if n == nil {
		return "", false
	}

	sec, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}

		if f < math.MinInt64 || f >= math.MaxInt64 {
			return "", false
		}

		sec = int64(f)
	}

	t := time.Unix(sec, 0).UTC()
	if t.Year() < 0 || t.Year() > 9999 {
		return "", false
	}

	return models.FormatTimestamp(t), true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
