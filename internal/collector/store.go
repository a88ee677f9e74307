package collector

import (
	"fmt"
	"path/filepath"

	"llamaworker/internal/config"
	"llamaworker/internal/models"
	"llamaworker/internal/storage/file"
	"llamaworker/pkg/utils"
)

// Store persists raw envelopes under {data_dir}/{group}/{subgroup}/{name}_{timestamp}.json.
type Store struct {
	cfg     *config.CollectorConfig
	strings *utils.StringHelper
}

// NewStore creates a store rooted at the configured data directory.
func NewStore(cfg *config.CollectorConfig) *Store {
	return &Store{cfg: cfg, strings: utils.NewStringHelper()}
}

// PathFor returns where an envelope named name with the given timestamp is written.
func (s *Store) PathFor(group, subgroup, name, timestamp string) string {
	filename := s.strings.SafeFilename(fmt.Sprintf("%s_%s", name, timestamp)) + ".json"

	return filepath.Join(s.cfg.GetCategoryDir(group, subgroup), filename)
}

// Save writes env and returns its path. Directories are created as needed.
func (s *Store) Save(env *models.Envelope, group, subgroup, name string) (string, error) {
	path := s.PathFor(group, subgroup, name, env.Metadata.CollectionInfo.Timestamp)

	if err := file.WriteJSON(path, env, true); err != nil {
		return "", fmt.Errorf("failed to save %s/%s: %w", group, subgroup, err)
	}

	return path, nil
}
