// Package metadata provides the collection metadata attached to every raw document and its content hash.
package metadata

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection defaults written into every envelope.
const (
	CollectionMethod = "DeFi Llama API request"
	StatusSuccess    = "success"
	DataFreshness    = "Real-time market data"
	DataFormat       = "Structured JSON with standardized metrics"

	DataTypeRaw        = "raw"
	DataTypeAggregated = "aggregated"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata is the "metadata" object of a raw document envelope.
type Metadata struct {
	CollectionInfo CollectionInfo `json:"collection_info"`
	SourceInfo     SourceInfo     `json:"source_info"`
	CategoryInfo   CategoryInfo   `json:"category_info"`
	ProtocolInfo   *ProtocolInfo  `json:"protocol_info,omitempty"`
}

// CollectionInfo records when and how the payload was obtained.
type CollectionInfo struct {
	Timestamp        string `json:"timestamp"`
	CollectionMethod string `json:"collection_method"`
	CollectionStatus string `json:"collection_status"`
	DataFreshness    string `json:"data_freshness"`
	ContentHash      string `json:"content_hash,omitempty"`
}

// SourceInfo records where the payload came from.
type SourceInfo struct {
	APIBase             string `json:"api_base"`
	Endpoint            string `json:"endpoint"`
	DataType            string `json:"data_type"`
	DataTypeDescription string `json:"data_type_description"`
	DataFormat          string `json:"data_format"`
}

// CategoryInfo records which category the payload belongs to.
type CategoryInfo struct {
	MainCategory           string   `json:"main_category"`
	Subcategory            string   `json:"subcategory"`
	Description            string   `json:"description"`
	SubcategoryDescription string   `json:"subcategory_description"`
	MetricsIncluded        []string `json:"metrics_included"`
}

// ProtocolInfo is present only on per-DEX detail documents.
type ProtocolInfo struct {
	Slug               string   `json:"slug"`
	ProtocolType       string   `json:"protocol_type"`
	DataTypes          []string `json:"data_types"`
	MetricsDescription string   `json:"metrics_description"`
	UpdateFrequency    string   `json:"update_frequency"`
}

// NewDexProtocolInfo returns the protocol block used for DEX detail documents.
func NewDexProtocolInfo(slug string) *ProtocolInfo {
	return &ProtocolInfo{
		Slug:               slug,
		ProtocolType:       "DEX",
		DataTypes:          []string{"tvl", "volume", "fees"},
		MetricsDescription: "Detailed protocol-specific metrics including TVL, trading volume, and fee data",
		UpdateFrequency:    "Real-time with slight delay",
	}
}

// CalculateHash computes the SHA-256 hash of the canonical JSON encoding of data.
// data is first normalized to generic JSON values so structs and decoded maps holding the
// same content hash identically; object keys are then sorted by encoding/json.
func CalculateHash(data any) (string, error) {
	canonical, err := canonicalize(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(canonical); err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}

	hash := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))

	return hex.EncodeToString(hash[:]), nil
}

func canonicalize(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to normalize content: %w", err)
	}

	return v, nil
}

// Sign stores the content hash of data in meta.
func Sign(meta *Metadata, data any) error {
	hash, err := CalculateHash(data)
	if err != nil {
		return err
	}

	meta.CollectionInfo.ContentHash = hash

	return nil
}

// Verify checks that the data of a serialized envelope matches its recorded hash.
func Verify(raw []byte) (bool, error) {
	var env struct {
		Metadata *Metadata `json:"metadata"`
		Data     any       `json:"data"`
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(&env); err != nil {
		return false, fmt.Errorf("failed to decode document: %w", err)
	}

	if env.Metadata == nil {
		return false, ErrNoMetadataBlock
	}

	if env.Metadata.CollectionInfo.ContentHash == "" {
		return false, ErrNoHashFound
	}

	calculated, err := CalculateHash(env.Data)
	if err != nil {
		return false, err
	}

	if calculated != env.Metadata.CollectionInfo.ContentHash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, env.Metadata.CollectionInfo.ContentHash, calculated)
	}

	return true, nil
}
