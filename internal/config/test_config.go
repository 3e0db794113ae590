package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog = CatalogConfig{
		APIKey:      "test-key",
		Region:      "US",
		MaxResults:  8,
		HTTPTimeout: 5 * time.Second,
	}
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Shorts = ShortsConfig{
		Queries:       []string{"test shorts"},
		PerQuery:      4,
		MaxItems:      10,
		PreloadRadius: 2,
		SettleDelay:   10 * time.Millisecond,
		HistoryDwell:  10 * time.Millisecond,
	}
	return cfg
}
