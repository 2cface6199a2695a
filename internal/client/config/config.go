package config

import (
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
)

// Config holds runtime settings for the timeline CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gateway gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes gateway reachability.
//   - DataDir: directory holding the local SQLite database.
//   - Profile: the profile whose timeline is composed.
//   - PeopleEncoding: "structured" or "sentinel", see timeline.PeopleEncoding.
//   - UploadConcurrency: parallel media transfers per batch.
//   - SearchDebounce: quiet period before a people search is sent.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DataDir             string
	Profile             string
	PeopleEncoding      timeline.PeopleEncoding
	UploadConcurrency   int
	SearchDebounce      time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".gophtimeline"
	c.Profile = "self"
	c.PeopleEncoding = timeline.PeopleStructured
	c.UploadConcurrency = 4
	c.SearchDebounce = 250 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.sanitize()
	return cfg
}

func (c *Config) sanitize() {
	if !c.PeopleEncoding.Valid() {
		c.PeopleEncoding = timeline.PeopleStructured
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = 4
	}
	if c.SearchDebounce < 0 {
		c.SearchDebounce = 0
	}
}
