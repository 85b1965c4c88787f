// Package config loads the JSON configuration file for the quorumd demo
// harness: cluster peers, local identity, and timeouts, the way a node's
// config.json loads a list of cluster peers for a Raft cluster.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// VoterConfig describes one member of the voter set.
type VoterConfig struct {
	ID        int32    `json:"id"`
	Listeners []string `json:"listeners"`
}

// Config is the on-disk shape of a quorumd node's configuration.
type Config struct {
	LocalID           *int32        `json:"local_id"`
	LocalDirectoryID  string        `json:"local_directory_id"`
	LocalListeners    []string      `json:"local_listeners"`
	ElectionTimeoutMs int           `json:"election_timeout_ms"`
	FetchTimeoutMs    int           `json:"fetch_timeout_ms"`
	StatePath         string        `json:"state_path"`
	StatusAddr        string        `json:"status_addr"`
	Voters            []VoterConfig `json:"voters"`
}

// Load reads and parses a Config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// DirectoryID parses LocalDirectoryID, generating a fresh random one if it
// was left blank.
func (c *Config) DirectoryID() (uuid.UUID, error) {
	if c.LocalDirectoryID == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(c.LocalDirectoryID)
}
