package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/flagx"
	"github.com/dmitrijs2005/gophtimeline/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DataDir             *string         `json:"data_dir"`
	Profile             *string         `json:"profile"`
	PeopleEncoding      *string         `json:"people_encoding"`
	UploadConcurrency   *int            `json:"upload_concurrency"`
	SearchDebounce      *timex.Duration `json:"search_debounce"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays Config with values from the file named by -c or -config.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.Profile != nil {
		cfg.Profile = *jc.Profile
	}
	if jc.PeopleEncoding != nil {
		cfg.PeopleEncoding = timeline.PeopleEncoding(*jc.PeopleEncoding)
	}
	if jc.UploadConcurrency != nil {
		cfg.UploadConcurrency = *jc.UploadConcurrency
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
