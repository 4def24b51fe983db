package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/feed"
	"taskdeck/internal/localdb"
	"taskdeck/internal/reminder"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		login       = flag.String("login", "", "log in as user:password and exit")
		configPath  = flag.String("config", "", "path to config file")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("taskdeck %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(*login, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(login, configPath string) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("locating data directory: %w", err)
	}
	if configPath == "" {
		configPath = filepath.Join(dataDir, config.DefaultConfigFileName)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := setupLogging(cfg, dataDir); err != nil {
		return err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "taskdeck.db")
	}
	db, err := localdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening local database: %w", err)
	}
	defer db.Close()

	client := api.New(cfg.ServerURL, func() string {
		token, _ := db.GetSetting(localdb.SettingToken)
		return token
	})

	if login != "" {
		return doLogin(client, db, login)
	}

	token, _ := db.GetSetting(localdb.SettingToken)
	if token == "" {
		return fmt.Errorf("not logged in; run with -login user:password first")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	user, err := client.CurrentUser(ctx)
	cancel()
	if err != nil {
		_ = db.ClearCredentials()
		return fmt.Errorf("stored session is no longer valid, log in again: %w", err)
	}

	channel := reminder.New(cfg.WSURL, user.ID,
		time.Duration(cfg.ReconnectDelaySecs)*time.Second)
	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go channel.Run(runCtx)

	lastView, _ := db.GetSetting(localdb.SettingLastView)

	app := ui.NewApp(ui.Options{
		Client:   client,
		Store:    store.NewTaskStore(),
		Feed:     feed.New(db),
		DB:       db,
		Channel:  channel,
		Offset:   cfg.UTCOffsetHours,
		Username: user.Username,
		LastView: lastView,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// setupLogging sends logrus to a file; the terminal belongs to the TUI
func setupLogging(cfg config.Config, dataDir string) error {
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = filepath.Join(dataDir, "taskdeck.log")
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func doLogin(client *api.Client, db *localdb.DB, login string) error {
	username, password, ok := strings.Cut(login, ":")
	if !ok || username == "" || password == "" {
		return fmt.Errorf("expected -login user:password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	token, userID, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := db.SetSetting(localdb.SettingToken, token); err != nil {
		return err
	}
	if err := db.SetSetting(localdb.SettingUserID, strconv.FormatInt(userID, 10)); err != nil {
		return err
	}
	if err := db.SetSetting(localdb.SettingUsername, username); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", username)
	return nil
}
