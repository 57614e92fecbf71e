package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/netip"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/curator/xtime"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server  Server
	Auth    Auth
	Listing Listing

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}

	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON. The file
// is only readable by the owner, since it contains the token secret.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o600); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
	// TokenExpiration is the amount of time an admin API token is valid for.
	// It serializes from/to xtime.Duration string values. Minimum value: 1 minute.
	TokenExpiration sql.Null[time.Duration] `json:"token_expiration"`
	// AdminNetworks are the networks admin API requests are accepted from. An
	// empty list allows all networks.
	AdminNetworks []netip.Prefix `json:"admin_networks"`
	// MaxUploadSize is the maximum size in bytes of an uploaded image.
	MaxUploadSize sql.Null[int64] `json:"max_upload_size"`
}

// Auth defines authentication options.
type Auth struct {
	// TokenSecret is the base58 encoded key used to sign admin API tokens.
	TokenSecret sql.Null[string] `json:"token_secret"`
}

// Listing defines options for the public site listing.
type Listing struct {
	// HotWindow is how long a site stays flagged as hot when an admin flags
	// it without an explicit expiry.
	HotWindow sql.Null[time.Duration] `json:"hot_window"`
	// NewWindow is how long a site stays flagged as new after it's created.
	NewWindow sql.Null[time.Duration] `json:"new_window"`
}

type cfgWrapper struct {
	Server  srvCfgWrapper     `json:"server"`
	Auth    authCfgWrapper    `json:"auth"`
	Listing listingCfgWrapper `json:"listing"`
}
type srvCfgWrapper struct {
	Address         string   `json:"address,omitempty"`
	TokenExpiration string   `json:"token_expiration,omitempty"`
	AdminNetworks   []string `json:"admin_networks,omitempty"`
	MaxUploadSize   int64    `json:"max_upload_size,omitempty"`
}
type authCfgWrapper struct {
	TokenSecret string `json:"token_secret,omitempty"`
}
type listingCfgWrapper struct {
	HotWindow string `json:"hot_window,omitempty"`
	NewWindow string `json:"new_window,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}
	if c.Server.TokenExpiration.Valid {
		w.Server.TokenExpiration = xtime.FormatDuration(c.Server.TokenExpiration.V, time.Minute)
	}
	for _, p := range c.Server.AdminNetworks {
		w.Server.AdminNetworks = append(w.Server.AdminNetworks, p.String())
	}
	if c.Server.MaxUploadSize.Valid {
		w.Server.MaxUploadSize = c.Server.MaxUploadSize.V
	}

	if c.Auth.TokenSecret.Valid {
		w.Auth.TokenSecret = c.Auth.TokenSecret.V
	}

	if c.Listing.HotWindow.Valid {
		w.Listing.HotWindow = xtime.FormatDuration(c.Listing.HotWindow.V, time.Hour)
	}
	if c.Listing.NewWindow.Valid {
		w.Listing.NewWindow = xtime.FormatDuration(c.Listing.NewWindow.V, time.Hour)
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types and parse duration strings into time.Duration values.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}
	if w.Server.TokenExpiration != "" {
		dur, err := xtime.ParseDuration(w.Server.TokenExpiration)
		if err != nil {
			return fmt.Errorf("failed parsing token expiration: %w", err)
		}
		if dur < time.Minute {
			return fmt.Errorf("token expiration must be at least 1m, got %s", w.Server.TokenExpiration)
		}
		c.Server.TokenExpiration = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	c.Server.AdminNetworks = nil
	for _, n := range w.Server.AdminNetworks {
		p, err := parsePrefix(n)
		if err != nil {
			return fmt.Errorf("failed parsing admin network '%s': %w", n, err)
		}
		c.Server.AdminNetworks = append(c.Server.AdminNetworks, p)
	}
	if w.Server.MaxUploadSize > 0 {
		c.Server.MaxUploadSize = sql.Null[int64]{V: w.Server.MaxUploadSize, Valid: true}
	}

	if w.Auth.TokenSecret != "" {
		c.Auth.TokenSecret = sql.Null[string]{V: w.Auth.TokenSecret, Valid: true}
	}

	if w.Listing.HotWindow != "" {
		dur, err := xtime.ParseDuration(w.Listing.HotWindow)
		if err != nil {
			return fmt.Errorf("failed parsing hot window: %w", err)
		}
		c.Listing.HotWindow = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	if w.Listing.NewWindow != "" {
		dur, err := xtime.ParseDuration(w.Listing.NewWindow)
		if err != nil {
			return fmt.Errorf("failed parsing new window: %w", err)
		}
		c.Listing.NewWindow = sql.Null[time.Duration]{V: dur, Valid: true}
	}

	return nil
}

// parsePrefix parses a CIDR prefix, or a single IP address as a prefix that
// only contains that address.
func parsePrefix(s string) (netip.Prefix, error) {
	if p, err := netip.ParsePrefix(s); err == nil {
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err //nolint:wrapcheck // Wrapped by the caller.
	}

	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// ParsePrefixes parses a list of CIDR prefixes or IP addresses.
func ParsePrefixes(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		p, err := parsePrefix(v)
		if err != nil {
			return nil, fmt.Errorf("invalid network '%s': %w", v, err)
		}
		prefixes = append(prefixes, p)
	}

	return prefixes, nil
}

// Default values.
const (
	DefaultAddress         = ":3000"
	DefaultTokenExpiration = 24 * time.Hour
	DefaultMaxUploadSize   = 5 << 20
	DefaultHotWindow       = 30 * 24 * time.Hour
	DefaultNewWindow       = 7 * 24 * time.Hour
)

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Server.Address.Valid {
		c.Server.Address = sql.Null[string]{V: DefaultAddress, Valid: true}
	}
	if !c.Server.TokenExpiration.Valid {
		c.Server.TokenExpiration = sql.Null[time.Duration]{V: DefaultTokenExpiration, Valid: true}
	}
	if !c.Server.MaxUploadSize.Valid {
		c.Server.MaxUploadSize = sql.Null[int64]{V: DefaultMaxUploadSize, Valid: true}
	}
	if !c.Listing.HotWindow.Valid {
		c.Listing.HotWindow = sql.Null[time.Duration]{V: DefaultHotWindow, Valid: true}
	}
	if !c.Listing.NewWindow.Valid {
		c.Listing.NewWindow = sql.Null[time.Duration]{V: DefaultNewWindow, Valid: true}
	}
}
