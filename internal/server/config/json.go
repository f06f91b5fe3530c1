package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scribe/internal/flagx"
	"github.com/dmitrijs2005/scribe/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration,
// so both "10s" strings and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc"`
	DatabaseDSN             string         `json:"database_dsn"`
	StoreBackend            string         `json:"store_backend"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	CacheBackend            string         `json:"cache_backend"`
	RedisAddr               string         `json:"redis_addr"`
	CachePrefix             string         `json:"cache_prefix"`
	RequestTimeout          timex.Duration `json:"request_timeout"`
	FrontPageSize           int            `json:"front_page_size"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Fields absent from the file keep their current values. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.StoreBackend, c.StoreBackend)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.SessionValidityDuration, c.SessionValidityDuration.Duration)
	overlay(&config.CacheBackend, c.CacheBackend)
	overlay(&config.RedisAddr, c.RedisAddr)
	overlay(&config.CachePrefix, c.CachePrefix)
	overlay(&config.RequestTimeout, c.RequestTimeout.Duration)
	overlay(&config.FrontPageSize, c.FrontPageSize)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
