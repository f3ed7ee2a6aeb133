package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesSelectedFields(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":9090",
		"-d", "postgres://example/db",
		"-t", "30",
		"-n", "http://decoder.local",
		"-unrelated", "ignored",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://example/db", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "http://decoder.local", cfg.VINLookupURL)
	// untouched fields keep their defaults
	assert.Equal(t, "vehicle-photos", cfg.S3Bucket)
}
