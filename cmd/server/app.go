package main

import (
	"fmt"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/configs"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/accounts"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/auth"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/projects"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"gorm.io/gorm"
)

// app holds everything a command needs after startup.
type app struct {
	cfg      *configs.Config
	db       *gorm.DB
	tokens   *auth.TokenIssuer
	accounts *accounts.Service
	projects *projects.Service
	ledger   *ledger.Service
}

func bootstrap(configPath string) (*app, error) {
	cfg, err := configs.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := store.Open(cfg.DB, cfg.Server.Debug())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		store.Close(db)
		return nil, err
	}

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	return &app{
		cfg:      cfg,
		db:       db,
		tokens:   tokens,
		accounts: accounts.NewService(db, tokens, cfg.Admin.RegistrationCode),
		projects: projects.NewService(db),
		ledger:   ledger.NewService(db),
	}, nil
}

func (a *app) close() {
	store.Close(a.db)
	_ = logger.Log.Sync()
}
