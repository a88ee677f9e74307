package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCategory_Info(t *testing.T) {
	tests := []struct {
		category Category
		dir      string
		output   string
		key      string
	}{
		{CategoryProtocolTVL, "protocols/tvl", "protocols_tvl.json", SummaryKeyProtocols},
		{CategoryDexVolume, "dex/volumes", "dex_volumes.json", SummaryKeyDex},
		{CategoryYieldPool, "yields/pools", "yield_pools.json", SummaryKeyYields},
		{CategoryStablecoin, "stablecoins/market", "stablecoins.json", SummaryKeyStablecoins},
		{CategoryProtocolFee, "protocols/fees", "protocol_fees.json", SummaryKeyFees},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			info, err := tt.category.Info()
			if err != nil {
				t.Fatalf("Info() error = %v", err)
			}

			if got := info.Group + "/" + info.Subgroup; got != tt.dir {
				t.Errorf("dir = %s, want %s", got, tt.dir)
			}

			if info.OutputFile != tt.output {
				t.Errorf("OutputFile = %s, want %s", info.OutputFile, tt.output)
			}

			if tt.category.SummaryKey() != tt.key {
				t.Errorf("SummaryKey = %s, want %s", tt.category.SummaryKey(), tt.key)
			}
		})
	}

	if len(AllCategories()) != 5 {
		t.Errorf("AllCategories() = %v", AllCategories())
	}

	if _, err := Category("nft").Info(); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Info(nft) error = %v, want ErrUnknownCategory", err)
	}

	if Category("nft").Valid() {
		t.Error("Valid(nft) = true")
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(time.Unix(1460419200, 0))
	if got != "2016-04-12T00:00:00.000Z" {
		t.Errorf("FormatTimestamp = %s", got)
	}
}

func TestRecord_NullFields(t *testing.T) {
	b, err := json.Marshal(ProtocolFeeRecord{Timestamp: "2024-01-01T00:00:00.000Z"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"name":null,"slug":null,"category":null,"fees_24h":null,"revenue_24h":null,` +
		`"fees_change_1d":null,"revenue_change_1d":null,"timestamp":"2024-01-01T00:00:00.000Z"}`
	if string(b) != want {
		t.Errorf("Marshal = %s\nwant %s", b, want)
	}
}
