package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-g", "127.0.0.1:9091", "-d", "db", "-m", "memory", "-s", "secret",
			"-t", "5", "-k", "redis", "-r", "redis:6379", "-p", "x:", "-w", "3", "-n", "7",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:        "127.0.0.1:9090",
				EndpointAddrGRPC:        "127.0.0.1:9091",
				DatabaseDSN:             "db",
				StoreBackend:            "memory",
				SecretKey:               "secret",
				SessionValidityDuration: 5 * time.Minute,
				CacheBackend:            "redis",
				RedisAddr:               "redis:6379",
				CachePrefix:             "x:",
				RequestTimeout:          3 * time.Second,
				FrontPageSize:           7,
			}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-config", "x.json", "-a", ":1"},
			expected: &Config{EndpointAddrHTTP: ":1"}},
		{name: "bad int panics", args: []string{"cmd", "-n", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
