package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "2", "-m", "8", "-f", "account",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expected: &Config{
			EndpointAddrHTTP:      "127.0.0.1:9090",
			DatabaseDSN:           "db",
			SecretKey:             "secret",
			TokenValidityDuration: 2 * time.Hour,
			MinSecretLength:       8,
			FocusAreaMode:         "account",
			S3RootUser:            "user",
			S3RootPassword:        "password",
			S3Bucket:              "bucket",
			S3Region:              "us-west-1",
			S3BaseEndpoint:        "http://endpoint",
		}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "-a", ":1"},
			expected: &Config{EndpointAddrHTTP: ":1"}},
		{name: "bad int", args: []string{"cmd", "-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsTTLWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	config := &Config{TokenValidityDuration: 90 * time.Minute}
	require.NoError(t, parseFlags(config))
	assert.Equal(t, 90*time.Minute, config.TokenValidityDuration)
}
