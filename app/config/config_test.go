package config

import (
	"database/sql"
	"net/netip"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
		expErr  string
	}{
		{
			name: "ok/missing_file",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Server.Address.Valid)
				assert.Empty(t, cfg.Server.AdminNetworks)
			},
		},
		{
			name: "ok/full",
			content: `{
				"server": {
					"address": ":8080",
					"token_expiration": "12h",
					"admin_networks": ["10.0.0.0/8", "192.168.1.10", "2001:db8::1/32"],
					"max_upload_size": 1024
				},
				"auth": {"token_secret": "abc"},
				"listing": {"hot_window": "14d", "new_window": "3d"}
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, sql.Null[string]{V: ":8080", Valid: true}, cfg.Server.Address)
				assert.Equal(t, 12*time.Hour, cfg.Server.TokenExpiration.V)
				assert.Equal(t, []netip.Prefix{
					netip.MustParsePrefix("10.0.0.0/8"),
					netip.MustParsePrefix("192.168.1.10/32"),
					netip.MustParsePrefix("2001:db8::/32"),
				}, cfg.Server.AdminNetworks)
				assert.EqualValues(t, 1024, cfg.Server.MaxUploadSize.V)
				assert.Equal(t, "abc", cfg.Auth.TokenSecret.V)
				assert.Equal(t, 14*24*time.Hour, cfg.Listing.HotWindow.V)
				assert.Equal(t, 3*24*time.Hour, cfg.Listing.NewWindow.V)
			},
		},
		{
			name:    "err/short_token_expiration",
			content: `{"server": {"token_expiration": "30s"}}`,
			expErr:  "token expiration must be at least 1m, got 30s",
		},
		{
			name:    "err/invalid_hot_window",
			content: `{"listing": {"hot_window": "soon"}}`,
			expErr:  "failed parsing hot window",
		},
		{
			name:    "err/invalid_network",
			content: `{"server": {"admin_networks": ["10.0.0.0/33"]}}`,
			expErr:  "failed parsing admin network '10.0.0.0/33'",
		},
		{
			name:    "err/invalid_json",
			content: `{"server": `,
			expErr:  "failed parsing configuration file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fs := memoryfs.New()
			if tc.content != "" {
				require.NoError(t, fs.MkdirAll("/etc/curator", 0o755))
				require.NoError(t, vfs.WriteFile(fs, "/etc/curator/config.json", []byte(tc.content), 0o600))
			}

			cfg := NewConfig(fs, "/etc/curator/config.json")
			err := cfg.Load()
			if tc.expErr != "" {
				assert.ErrorContains(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestConfigSave(t *testing.T) {
	t.Parallel()

	fs := memoryfs.New()
	cfg := NewConfig(fs, "/etc/curator/config.json")
	cfg.Server.TokenExpiration = sql.Null[time.Duration]{V: 48 * time.Hour, Valid: true}
	cfg.Server.AdminNetworks = []netip.Prefix{netip.MustParsePrefix("127.0.0.1/32")}
	cfg.Auth.TokenSecret = sql.Null[string]{V: "s3cret", Valid: true}
	require.NoError(t, cfg.Save())

	data, err := vfs.ReadFile(fs, "/etc/curator/config.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"server": {"token_expiration": "2d", "admin_networks": ["127.0.0.1/32"]},
		"auth": {"token_secret": "s3cret"},
		"listing": {}
	}`, string(data))

	loaded := NewConfig(fs, "/etc/curator/config.json")
	require.NoError(t, loaded.Load())
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.Auth, loaded.Auth)
}

func TestConfigSetDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(memoryfs.New(), "/config.json")
	cfg.Listing.HotWindow = sql.Null[time.Duration]{V: time.Hour, Valid: true}
	cfg.SetDefaults()

	assert.Equal(t, DefaultAddress, cfg.Server.Address.V)
	assert.Equal(t, DefaultTokenExpiration, cfg.Server.TokenExpiration.V)
	assert.EqualValues(t, DefaultMaxUploadSize, cfg.Server.MaxUploadSize.V)
	assert.Equal(t, time.Hour, cfg.Listing.HotWindow.V)
	assert.Equal(t, DefaultNewWindow, cfg.Listing.NewWindow.V)
}
