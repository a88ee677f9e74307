package models

import (
	"time"

	"llamaworker/pkg/metadata"
)

// TimestampLayout is the ISO-8601 UTC layout used for every timestamp this worker writes.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Envelope is the document persisted by the collector: the untouched API body plus metadata.
type Envelope struct {
	Metadata metadata.Metadata `json:"metadata"`
	Data     any               `json:"data"`
}

// DexDetails is the combined payload persisted for one DEX. Each part is independently nullable.
type DexDetails struct {
	TVL    any `json:"tvl"`
	Volume any `json:"volume"`
	Fees   any `json:"fees"`
}
