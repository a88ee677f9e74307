// Package models defines the categories, raw document envelope and flat record shapes.
package models

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category identifier is not one of the fixed five.
var ErrUnknownCategory = errors.New("unknown category")

// Category identifies one of the fixed data categories.
type Category string

// Supported categories.
const (
	CategoryProtocolTVL Category = "protocol_tvl"
	CategoryDexVolume   Category = "dex_volume"
	CategoryYieldPool   Category = "yield_pool"
	CategoryStablecoin  Category = "stablecoin"
	CategoryProtocolFee Category = "protocol_fee"
)

// APIBase selects which host of the analytics API serves a category.
type APIBase string

// API hosts.
const (
	APIBaseMain        APIBase = "main"
	APIBaseYields      APIBase = "yields"
	APIBaseStablecoins APIBase = "stablecoins"
)

// CategoryInfo is the static description of a category.
type CategoryInfo struct {
	Category Category
	// Group and Subgroup form the collector directory: {data_dir}/{group}/{subgroup}.
	Group    string
	Subgroup string
	Base     APIBase
	Endpoint string
	// ContainerPath is the jsonpath of the list that holds one entry per entity.
	ContainerPath string
	OutputFile    string

	Description         string
	SubgroupDescription string
	DataTypeDescription string
	SummaryDataType     string
	MetricsIncluded     []string
}

var categoryTable = []CategoryInfo{
	{
		Category:            CategoryProtocolTVL,
		Group:               "protocols",
		Subgroup:            "tvl",
		Base:                APIBaseMain,
		Endpoint:            "/protocols",
		ContainerPath:       "$.data",
		OutputFile:          "protocols_tvl.json",
		Description:         "Protocol TVL and general information",
		SubgroupDescription: "Total Value Locked data for all protocols",
		DataTypeDescription: "Complete listing of all protocols with basic metrics (TVL, changes, chains)",
		SummaryDataType:     "Raw protocol listing with basic metrics",
		MetricsIncluded:     []string{"TVL", "Market Metrics"},
	},
	{
		Category:            CategoryDexVolume,
		Group:               "dex",
		Subgroup:            "volumes",
		Base:                APIBaseMain,
		Endpoint:            "/overview/dexs",
		ContainerPath:       "$.data.protocols",
		OutputFile:          "dex_volumes.json",
		Description:         "Decentralized Exchange data and metrics",
		SubgroupDescription: "Trading volume data across all DEXs",
		DataTypeDescription: "Complete listing of all DEXs with basic volume and TVL metrics",
		SummaryDataType:     "Complete DEX listing with volume data",
		MetricsIncluded:     []string{"TVL", "Volume", "Fees"},
	},
	{
		Category:            CategoryYieldPool,
		Group:               "yields",
		Subgroup:            "pools",
		Base:                APIBaseYields,
		Endpoint:            "/pools",
		ContainerPath:       "$.data.data",
		OutputFile:          "yield_pools.json",
		Description:         "Yield farming and staking opportunities data",
		SubgroupDescription: "Yield pool information across protocols",
		DataTypeDescription: "Complete listing of all yield pools with current rates and TVL",
		SummaryDataType:     "Raw yield pool listing",
		MetricsIncluded:     []string{"TVL", "Market Metrics"},
	},
	{
		Category:            CategoryStablecoin,
		Group:               "stablecoins",
		Subgroup:            "market",
		Base:                APIBaseStablecoins,
		Endpoint:            "/stablecoins",
		ContainerPath:       "$.data.peggedAssets",
		OutputFile:          "stablecoins.json",
		Description:         "Stablecoin market data and metrics",
		SubgroupDescription: "Market capitalization and supply data for stablecoins",
		DataTypeDescription: "Complete listing of all stablecoins with market caps, supplies, and chains",
		SummaryDataType:     "Raw stablecoin market data",
		MetricsIncluded:     []string{"TVL", "Market Metrics"},
	},
	{
		Category:            CategoryProtocolFee,
		Group:               "protocols",
		Subgroup:            "fees",
		Base:                APIBaseMain,
		Endpoint:            "/overview/fees",
		ContainerPath:       "$.data.protocols",
		OutputFile:          "protocol_fees.json",
		Description:         "Protocol TVL and general information",
		SubgroupDescription: "Protocol fee and revenue data for all protocols",
		DataTypeDescription: "Complete listing of all protocols with basic metrics (TVL, changes, chains)",
		SummaryDataType:     "Raw protocol fee data",
		MetricsIncluded:     []string{"TVL", "Market Metrics"},
	},
}

// DEX detail documents live beside the volume listing.
const (
	DexDetailsGroup               = "dex"
	DexDetailsSubgroup            = "details"
	DexDetailsDescription         = "Detailed DEX-specific metrics and performance"
	DexDetailsDataTypeDescription = "Detailed metrics for specific DEXs including TVL, volume trends, and fee data"
)

// AllCategories returns the categories in their canonical processing order.
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryTable))
	for _, info := range categoryTable {
		out = append(out, info.Category)
	}

	return out
}

// Info returns the static description of a category.
func (c Category) Info() (CategoryInfo, error) {
	for _, info := range categoryTable {
		if info.Category == c {
			return info, nil
		}
	}

	return CategoryInfo{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// MustInfo is Info for the fixed constants; it panics on an unknown category.
func (c Category) MustInfo() CategoryInfo {
	info, err := c.Info()
	if err != nil {
		panic(err)
	}

	return info
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, err := c.Info()

	return err == nil
}

func (c Category) String() string {
	return string(c)
}
