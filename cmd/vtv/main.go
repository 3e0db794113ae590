package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkoval/vtv/internal/appstate"
	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/channelrss"
	"github.com/nkoval/vtv/internal/config"
	"github.com/nkoval/vtv/internal/debuglog"
	"github.com/nkoval/vtv/internal/library"
	"github.com/nkoval/vtv/internal/player"
	"github.com/nkoval/vtv/internal/session"
	"github.com/nkoval/vtv/internal/tui"
	"github.com/nkoval/vtv/internal/userdata"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	var (
		dbPath         = flag.String("db", "", "Path to database file (overrides config)")
		configPath     = flag.String("config", "", "Path to configuration file")
		generateConfig = flag.Bool("generate-config", false, "Generate default config file")
		version        = flag.Bool("version", false, "Show version information")
		quiet          = flag.Bool("quiet", false, "Skip startup banner")
		debug          = flag.Bool("debug", false, "Log debug output")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", tui.AppName, Version)
		fmt.Println("Terminal video browser")
		fmt.Println("github.com/nkoval/vtv")
		return
	}

	if *generateConfig {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "vtv", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
		return
	}

	if !*quiet {
		tui.ShowBanner(Version)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Database.SearchIndex = expandHome(cfg.Database.SearchIndex)
	cfg.Database.ProfilePath = expandHome(cfg.Database.ProfilePath)

	if cfg.Catalog.APIKey == "" {
		log.Fatal("No catalog API key configured, set catalog.api_key in the config file")
	}

	level := debuglog.LevelWarn
	if *debug {
		level = debuglog.LevelDebug
	}
	logPath := filepath.Join(filepath.Dir(cfg.Database.SearchIndex), "debug.log")
	if err := debuglog.Setup(level, logPath); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer debuglog.Close()

	store, err := userdata.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	idx, err := library.Open(cfg.Database.SearchIndex)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	sess, err := session.NewProvider(cfg.Database.ProfilePath)
	if err != nil {
		log.Fatal(err)
	}

	cat, err := catalog.NewClient(context.Background(), &cfg.Catalog)
	if err != nil {
		log.Fatal(err)
	}

	pl := player.New(&cfg.Player)
	defer pl.Stop()

	state := appstate.NewStore()
	app := tui.NewApp(tui.Deps{
		State:       state,
		Store:       store,
		Catalog:     cat,
		ChannelFeed: channelrss.NewFetcher(cfg.Catalog.HTTPTimeout),
		Library:     idx,
		Session:     sess,
		Player:      pl,
	}, cfg)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// the initial watch events fire synchronously and Send blocks
	// until the program loop is consuming
	go bridgeUserData(p, state, store, sess)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bridgeUserData forwards store writes for the signed-in user into the
// shared state and pushes each snapshot at the program, so screens
// refresh even when a change originated outside the Update loop.
func bridgeUserData(p *tea.Program, state *appstate.Store, store *userdata.Store, sess *session.Provider) {
	var mu sync.Mutex
	var cancels []func()

	sess.Watch(func(id *session.Identity) {
		mu.Lock()
		for _, cancel := range cancels {
			cancel()
		}
		cancels = nil

		state.Dispatch(appstate.SetUser{User: id})
		if id == nil {
			mu.Unlock()
			p.Send(tui.StateChanged(state.State()))
			return
		}

		uid := id.UID
		push := func() { p.Send(tui.StateChanged(state.State())) }

		cancels = append(cancels,
			store.Watch(userdata.HistoryPath(uid), func(userdata.Event) {
				if entries, err := store.History(uid); err == nil {
					state.Dispatch(appstate.SetHistory{Entries: entries})
					push()
				} else {
					debuglog.Warnf("history watch: %v", err)
				}
			}),
			store.Watch(userdata.LikedPath(uid), func(userdata.Event) {
				if videos, err := store.LikedVideos(uid); err == nil {
					state.Dispatch(appstate.SetLikedVideos{Videos: videos})
					push()
				} else {
					debuglog.Warnf("liked watch: %v", err)
				}
			}),
			store.Watch(userdata.SubscriptionsPath(uid), func(userdata.Event) {
				if subs, err := store.Subscriptions(uid); err == nil {
					state.Dispatch(appstate.SetSubscriptions{Subscriptions: subs})
					push()
				} else {
					debuglog.Warnf("subscriptions watch: %v", err)
				}
			}),
			store.Watch(userdata.PlaylistsPath(uid), func(userdata.Event) {
				if playlists, err := store.Playlists(uid); err == nil {
					state.Dispatch(appstate.SetPlaylists{Playlists: playlists})
					push()
				} else {
					debuglog.Warnf("playlists watch: %v", err)
				}
			}),
		)
		mu.Unlock()
	})
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
