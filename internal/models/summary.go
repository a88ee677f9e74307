package models

import "llamaworker/pkg/metadata"

// CollectionSummary is what the collector reports after a full run.
type CollectionSummary struct {
	Collection CollectionInfo             `json:"collection_summary"`
	Data       map[string]CategorySummary `json:"data_summary"`
}

// CollectionInfo describes the run itself.
type CollectionInfo struct {
	Timestamp       string   `json:"timestamp"`
	TotalCategories int      `json:"total_categories"`
	Status          string   `json:"status"`
	DexCount        int      `json:"dex_count"`
	SupportedDexs   []string `json:"supported_dexs"`
}

// CategorySummary reports how many entities one category payload carried.
// Source is nil when the fetch failed.
type CategorySummary struct {
	Count     int                             `json:"count"`
	Source    *metadata.SourceInfo            `json:"source"`
	DataType  string                          `json:"data_type,omitempty"`
	MajorDexs map[string]*metadata.SourceInfo `json:"major_dexs,omitempty"`
}

// Summary keys, matching the directory group names.
const (
	SummaryKeyProtocols   = "protocols"
	SummaryKeyDex         = "dex"
	SummaryKeyYields      = "yields"
	SummaryKeyStablecoins = "stablecoins"
	SummaryKeyFees        = "fees"
)

// SummaryKey returns the data_summary key of a category.
func (c Category) SummaryKey() string {
	switch c {
	case CategoryProtocolTVL:
		return SummaryKeyProtocols
	case CategoryDexVolume:
		return SummaryKeyDex
	case CategoryYieldPool:
		return SummaryKeyYields
	case CategoryStablecoin:
		return SummaryKeyStablecoins
	case CategoryProtocolFee:
		return SummaryKeyFees
	}

	return string(c)
}
