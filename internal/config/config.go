package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Network             string `json:"network"`
	NodeURL             string `json:"nodeUrl"`
	ListenAddr          string `json:"listenAddr"`
	Debug               bool   `json:"debug"`
	PolicyFile          string `json:"policyFile"`
	PollIntervalSec     int    `json:"pollIntervalSec"`
	MaxTransactionsPoll int    `json:"maxTransactionsPoll"`
	PingIntervalSec     int    `json:"pingIntervalSec"`
	LivenessWindowSec   int    `json:"livenessWindowSec"`
	SeverityThreshold   string `json:"severityThreshold"`

	// AllowedOrigins are origin patterns accepted for websocket upgrades,
	// matched against the Origin authority (host[:port]).
	AllowedOrigins []string `json:"allowedOrigins"`
}

func Default() Config {
	return Config{
		Network:             "testnet",
		NodeURL:             "https://fullnode.testnet.aptoslabs.com/v1",
		ListenAddr:          ":8000",
		PollIntervalSec:     5,
		MaxTransactionsPoll: 25,
		PingIntervalSec:     15,
		LivenessWindowSec:   45,
		SeverityThreshold:   "low",
		AllowedOrigins:      []string{"localhost:*", "127.0.0.1:*"},
	}
}

func (c Config) PollInterval() time.Duration { return time.Duration(c.PollIntervalSec) * time.Second }
func (c Config) PingInterval() time.Duration { return time.Duration(c.PingIntervalSec) * time.Second }
func (c Config) LivenessWindow() time.Duration {
	return time.Duration(c.LivenessWindowSec) * time.Second
}

// Load searches upwards from startDir for .chainsentinel.json, then applies
// environment overrides. A missing file is not an error.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	found := ""
	dir := startDir
	for {
		candidate := filepath.Join(dir, ".chainsentinel.json")
		if _, err := os.Stat(candidate); err == nil {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return cfg, candidate, err
			}
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, candidate, err
			}
			found = candidate
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	applyEnv(&cfg)
	return cfg, found, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHAINSENTINEL_NETWORK"); v != "" {
		cfg.Network = v
	}
	if v := os.Getenv("CHAINSENTINEL_NODE_URL"); v != "" {
		cfg.NodeURL = v
	}
	if v := os.Getenv("CHAINSENTINEL_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CHAINSENTINEL_POLICY_FILE"); v != "" {
		cfg.PolicyFile = v
	}
	if v := os.Getenv("CHAINSENTINEL_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalSec = n
		}
	}
	if v := os.Getenv("CHAINSENTINEL_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}
