// Package main provides the damage calculator server binary: an HTTP API and
// websocket session in front of the damage engine.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/calcserver"
	"github.com/cory-johannsen/damagecalc/internal/config"
	"github.com/cory-johannsen/damagecalc/internal/game/battle"
	"github.com/cory-johannsen/damagecalc/internal/game/damage"
	"github.com/cory-johannsen/damagecalc/internal/game/dice"
	"github.com/cory-johannsen/damagecalc/internal/game/modifier"
	"github.com/cory-johannsen/damagecalc/internal/game/move"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
	"github.com/cory-johannsen/damagecalc/internal/observability"
	"github.com/cory-johannsen/damagecalc/internal/scripting"
	"github.com/cory-johannsen/damagecalc/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before the config")
	flag.Parse()

	// A missing .env is normal outside local development.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Modifier catalog
	catalog := modifier.Default()
	if cfg.Content.ModifiersFile != "" {
		catalog, err = modifier.LoadFile(cfg.Content.ModifiersFile)
		if err != nil {
			logger.Fatal("loading modifiers", zap.Error(err))
		}
	}
	logger.Info("modifier catalog ready",
		zap.Int("items", len(catalog.Items())),
		zap.Int("abilities", len(catalog.Abilities())),
	)

	// Power rules and scripted hooks
	powerRules := move.DefaultRules()
	if cfg.Content.PowerRulesFile != "" {
		powerRules, err = move.LoadRules(cfg.Content.PowerRulesFile)
		if err != nil {
			logger.Fatal("loading power rules", zap.Error(err))
		}
	}
	if cfg.Content.ScriptsDir != "" {
		scripts := scripting.NewManager(logger, cfg.Content.ScriptInstructionLimit)
		defer scripts.Close()
		if err := scripts.LoadDir(cfg.Content.ScriptsDir); err != nil {
			logger.Fatal("loading power scripts", zap.Error(err))
		}
		powerRules = powerRules.WithScripts(scripts)
	}
	logger.Info("power rules ready", zap.Int("rules", powerRules.Len()))

	// Lookup source
	var source lookup.Source
	switch cfg.Lookup.Source {
	case config.SourceFile:
		dex, err := lookup.LoadDex(cfg.Lookup.DexDir)
		if err != nil {
			logger.Fatal("loading dex", zap.Error(err))
		}
		logger.Info("dex loaded", zap.Int("creatures", len(dex.CreatureNames())))
		source = dex
	default:
		source = lookup.NewPokeAPI(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, logger)
	}
	if cfg.Lookup.Cache {
		source = lookup.NewCache(source, logger)
	}

	engine := damage.NewEngine(
		catalog,
		powerRules,
		battle.Rules{SupportedLevels: cfg.Calc.SupportedLevels},
		damage.Options{FullHPHalving: cfg.Calc.FullHPHalving},
		logger,
	)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	calc := calcserver.New(engine, source, roller, calcserver.Defaults{
		Level:      cfg.Calc.DefaultLevel,
		Friendship: cfg.Calc.DefaultFriendship,
		Boss:       cfg.Calc.Boss,
	}, logger)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      calc.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", server.NewHTTPService(httpSrv, cfg.HTTP.ShutdownTimeout, logger))

	logger.Info("calculator server initialized",
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("lookup", cfg.Lookup.Source),
		zap.Ints("levels", cfg.Calc.SupportedLevels),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
