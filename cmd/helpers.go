package cmd

import (
	"fmt"
	"time"

	"github.com/ktmcp-cli/xero/internal/config"
	"github.com/ktmcp-cli/xero/internal/credentials"
	"github.com/ktmcp-cli/xero/internal/oauth"
	"github.com/ktmcp-cli/xero/internal/xero"
)

// configDir returns the directory holding config.yaml and credentials.json,
// honoring the --config-dir flag.
func configDir() (string, error) {
	if rootConfigDir != "" {
		return rootConfigDir, nil
	}
	return config.DefaultConfigPath()
}

// loadSettings loads the YAML config, falling back to defaults when no
// config file exists yet.
func loadSettings() (config.Config, error) {
	dir, err := configDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(dir)
}

// openStore opens the credential store. When the store holds no client
// credentials yet, XERO_CLIENT_ID / XERO_CLIENT_SECRET from the environment
// (or a .env file) seed it, so CI can bootstrap without `xero config set`.
func openStore() (*credentials.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	store, err := credentials.NewStore(credentials.StoreConfig{StorageDir: dir, FileMode: true})
	if err != nil {
		return nil, err
	}

	if !store.Get().HasClient() {
		id, secret := config.LoadEnv()
		if id != "" && secret != "" {
			if err := store.SetClient(id, secret); err != nil {
				return nil, err
			}
		}
	}

	return store, nil
}

// newAPIClient builds the authorized request executor backed by the
// credential store and the refresh-token grant.
func newAPIClient() (*xero.Client, *credentials.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	refresher := oauth.NewExchanger(store)
	return xero.NewClient(store, refresher), store, nil
}

// outputFormat resolves the effective output format from the --output flag
// and the config file.
func outputFormat(cfg config.Config) string {
	if rootOutput != "" {
		return rootOutput
	}
	if cfg.Output != "" {
		return cfg.Output
	}
	return "table"
}

// formatDuration renders a duration in a compact human-readable form,
// e.g. "29m59s" or "1h12m".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// formatExpiryWithDirection renders a token expiry relative to now, either
// "expires in 29m59s" or "expired 5m2s ago".
func formatExpiryWithDirection(expiry, now time.Time) string {
	if expiry.After(now) {
		return fmt.Sprintf("expires in %s", formatDuration(expiry.Sub(now)))
	}
	return fmt.Sprintf("expired %s ago", formatDuration(now.Sub(expiry)))
}
