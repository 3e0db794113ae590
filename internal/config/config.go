package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Shorts   ShortsConfig   `mapstructure:"shorts"`
	UI       UIConfig       `mapstructure:"ui"`
	Player   PlayerConfig   `mapstructure:"player"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type CatalogConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Region      string        `mapstructure:"region"`
	MaxResults  int           `mapstructure:"max_results"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
	ProfilePath string        `mapstructure:"profile_path"`
}

// ShortsConfig controls the short-form feed screen.
type ShortsConfig struct {
	Queries       []string      `mapstructure:"queries"`
	PerQuery      int           `mapstructure:"per_query"`
	MaxItems      int           `mapstructure:"max_items"`
	PreloadRadius int           `mapstructure:"preload_radius"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	HistoryDwell  time.Duration `mapstructure:"history_dwell"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type PlayerConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit          string `mapstructure:"quit"`
	Search        string `mapstructure:"search"`
	Home          string `mapstructure:"home"`
	Shorts        string `mapstructure:"shorts"`
	History       string `mapstructure:"history"`
	Liked         string `mapstructure:"liked"`
	Subscriptions string `mapstructure:"subscriptions"`
	Playlists     string `mapstructure:"playlists"`
	Profile       string `mapstructure:"profile"`
	Like          string `mapstructure:"like"`
	Subscribe     string `mapstructure:"subscribe"`
	Save          string `mapstructure:"save"`
	Comment       string `mapstructure:"comment"`
	Play          string `mapstructure:"play"`
	Pause         string `mapstructure:"pause"`
	ToggleSidebar string `mapstructure:"toggle_sidebar"`
	Back          string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".vtv.db")
	searchIndexPath := filepath.Join(homeDir, ".vtv", "index.bleve")
	profilePath := filepath.Join(homeDir, ".vtv", "profile.json")

	return &Config{
		Catalog: CatalogConfig{
			Region:      "US",
			MaxResults:  24,
			HTTPTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: searchIndexPath,
			ProfilePath: profilePath,
		},
		Shorts: ShortsConfig{
			Queries: []string{
				"shorts viral",
				"funny short video",
				"dance shorts",
				"comedy shorts",
				"trending shorts",
				"viral moments",
				"quick tutorial",
				"amazing shorts",
			},
			PerQuery:      8,
			MaxItems:      40,
			PreloadRadius: 2,
			SettleDelay:   150 * time.Millisecond,
			HistoryDwell:  2 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF4E45",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#0F0F0F",
				Surface:    "#272727",
				Text:       "#F1F1F1",
				Muted:      "#AAAAAA",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
		},
		Player: PlayerConfig{
			Darwin:        []string{"iina", "mpv", "vlc"},
			Linux:         []string{"mpv", "vlc", "mplayer"},
			Windows:       []string{"mpv", "vlc"},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:          "q",
				Search:        "f",
				Home:          "h",
				Shorts:        "v",
				History:       "y",
				Liked:         "l",
				Subscriptions: "u",
				Playlists:     "p",
				Profile:       "e",
				Like:          "k",
				Subscribe:     "b",
				Save:          "a",
				Comment:       "t",
				Play:          "o",
				Pause:         "space",
				ToggleSidebar: "s",
				Back:          "esc",
			},
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("catalog", cfg.Catalog)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("shorts", cfg.Shorts)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("player", cfg.Player)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "vtv")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to the home directory and converts to an absolute path.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Database.ProfilePath = expandPath(cfg.Database.ProfilePath)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations serialize as strings for TOML readability.
	catalogCfg := map[string]interface{}{
		"api_key":      config.Catalog.APIKey,
		"region":       config.Catalog.Region,
		"max_results":  config.Catalog.MaxResults,
		"http_timeout": config.Catalog.HTTPTimeout.String(),
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
		"profile_path": config.Database.ProfilePath,
	}

	shortsCfg := map[string]interface{}{
		"queries":        config.Shorts.Queries,
		"per_query":      config.Shorts.PerQuery,
		"max_items":      config.Shorts.MaxItems,
		"preload_radius": config.Shorts.PreloadRadius,
		"settle_delay":   config.Shorts.SettleDelay.String(),
		"history_dwell":  config.Shorts.HistoryDwell.String(),
	}

	v.Set("catalog", catalogCfg)
	v.Set("database", dbCfg)
	v.Set("shorts", shortsCfg)
	v.Set("ui", config.UI)
	v.Set("player", config.Player)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
