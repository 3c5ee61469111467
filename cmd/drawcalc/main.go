// Command drawcalc evaluates opening-hand combo probabilities for a deck.
//
// It reads a YDK deck list and a JSON combo spec, runs the Monte Carlo
// engine, and writes the report as JSON to stdout. With -watch it keeps
// running and re-evaluates whenever an input file changes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tcgtools/drawcalc/internal/cards"
	"github.com/tcgtools/drawcalc/internal/cards/watch"
	"github.com/tcgtools/drawcalc/internal/charts"
	"github.com/tcgtools/drawcalc/internal/config"
	"github.com/tcgtools/drawcalc/internal/deck"
	"github.com/tcgtools/drawcalc/internal/sim"
	"github.com/tcgtools/drawcalc/internal/storage"
)

// Exit codes per the query/report boundary contract.
const (
	exitOK            = 0
	exitFailure       = 1
	exitInvalidQuery  = 2
	exitMalformedDeck = 3
	exitFileTooLarge  = 4
)

// comboSpec is the on-disk combo file: a query without the concrete deck,
// which comes from the YDK file when -deck is given.
type comboSpec struct {
	DeckSize int         `json:"deck_size,omitempty"`
	HandSize int         `json:"hand_size,omitempty"`
	Combos   []sim.Combo `json:"combos"`
	SimCount int         `json:"sim_count,omitempty"`
	Seed     *uint64     `json:"seed,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		deckPath    = flag.String("deck", "", "path to a .ydk deck list")
		combosPath  = flag.String("combos", "", "path to the JSON combo spec")
		cardsPath   = flag.String("cards", "", "path to the JSON card metadata payload")
		dbPath      = flag.String("db", "", "path to the sqlite card database")
		importPath  = flag.String("import-cards", "", "import a JSON card payload into -db and exit")
		sims        = flag.Int("sims", 0, "simulation count (0 = default)")
		seed        = flag.Uint64("seed", 0, "PRNG seed (deterministic runs)")
		seedSet     = false
		chartPath   = flag.String("chart", "", "write a probability chart HTML file")
		watchInputs = flag.Bool("watch", false, "re-evaluate when input files change")
		configPath  = flag.String("config", "", "path to a config file")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drawcalc: %v\n", err)
		return exitFailure
	}

	level := slog.LevelInfo
	if *debug || cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *importPath != "" {
		if err := importCards(*importPath, *dbPath, cfg, logger); err != nil {
			logger.Error("card import failed", "error", err)
			return exitFailure
		}
		return exitOK
	}

	if *combosPath == "" {
		fmt.Fprintln(os.Stderr, "drawcalc: -combos is required")
		flag.Usage()
		return exitFailure
	}

	store, err := buildStore(*cardsPath, *dbPath, cfg, logger)
	if err != nil {
		logger.Error("loading card metadata failed", "error", err)
		return exitFailure
	}
	if *deckPath != "" && store.Len() == 0 {
		logger.Error("a deck list needs card metadata; pass -cards or -db")
		return exitFailure
	}

	traps := sim.DefaultHandTraps
	if cfg.Cards.UseHandTraps {
		traps = cfg.Cards.HandTraps
	}
	engine := sim.New(sim.Options{
		Logger:    logger,
		HandTraps: traps,
		CacheSize: cfg.Cache.MaxEntries,
	})

	var seedPtr *uint64
	if seedSet {
		seedPtr = seed
	}

	evaluate := func() int {
		query, code, err := buildQuery(*deckPath, *combosPath, store, cfg, *sims, seedPtr)
		if err != nil {
			logger.Error("building query failed", "error", err)
			return code
		}

		report, err := engine.Evaluate(context.Background(), query)
		if err != nil {
			logger.Error("evaluation failed", "error", err)
			if errors.Is(err, sim.ErrInvalidQuery) {
				return exitInvalidQuery
			}
			return exitFailure
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Error("encoding report failed", "error", err)
			return exitFailure
		}
		fmt.Println(string(out))

		if *chartPath != "" {
			if err := charts.RenderReport(report, charts.DefaultChartConfig(), *chartPath); err != nil {
				logger.Error("chart rendering failed", "error", err)
				return exitFailure
			}
			logger.Info("chart written", "path", *chartPath)
		}
		return exitOK
	}

	code := evaluate()
	if !*watchInputs || code != exitOK {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.New(func(path string) {
		logger.Info("input changed, re-evaluating", "path", path)
		if *cardsPath != "" {
			if err := reloadStore(store, *cardsPath); err != nil {
				logger.Error("reloading card metadata failed", "error", err)
				return
			}
		}
		evaluate()
	}, watch.Options{Logger: logger})
	if err != nil {
		logger.Error("creating watcher failed", "error", err)
		return exitFailure
	}
	defer watcher.Close()

	for _, path := range []string{*deckPath, *combosPath, *cardsPath} {
		if path == "" {
			continue
		}
		if err := watcher.Watch(path); err != nil {
			logger.Error("watching file failed", "path", path, "error", err)
			return exitFailure
		}
	}

	logger.Info("watching for changes, interrupt to stop")
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watcher stopped", "error", err)
		return exitFailure
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildStore hydrates the metadata store from the JSON payload or the sqlite
// database, explicit flags winning over config paths.
func buildStore(cardsPath, dbPath string, cfg *config.Config, logger *slog.Logger) (*cards.Store, error) {
	store := cards.NewStore(logger)

	if cardsPath == "" {
		cardsPath = cfg.Cards.PayloadPath
	}
	if dbPath == "" {
		dbPath = cfg.Cards.DBPath
	}

	switch {
	case cardsPath != "":
		if err := reloadStore(store, cardsPath); err != nil {
			return nil, err
		}
	case dbPath != "":
		db, err := storage.Open(storage.DefaultConfig(dbPath))
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := storage.NewService(db).LoadStore(context.Background(), store); err != nil {
			return nil, err
		}
		logger.Info("card metadata loaded from database", "cards", store.Len())
	}

	return store, nil
}

func reloadStore(store *cards.Store, payloadPath string) error {
	f, err := os.Open(payloadPath)
	if err != nil {
		return fmt.Errorf("open card payload: %w", err)
	}
	defer f.Close()
	return store.LoadPayload(f)
}

// importCards loads a JSON payload and persists it into the sqlite database.
func importCards(payloadPath, dbPath string, cfg *config.Config, logger *slog.Logger) error {
	if dbPath == "" {
		dbPath = cfg.Cards.DBPath
	}
	if dbPath == "" {
		return fmt.Errorf("-import-cards needs -db or a configured db_path")
	}

	store := cards.NewStore(logger)
	if err := reloadStore(store, payloadPath); err != nil {
		return err
	}

	dbCfg := storage.DefaultConfig(dbPath)
	dbCfg.AutoMigrate = true
	db, err := storage.Open(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := storage.NewService(db)
	if err := svc.SaveCards(context.Background(), store.All()); err != nil {
		return err
	}
	logger.Info("card payload imported", "cards", store.Len(), "db", dbPath)
	return nil
}

// buildQuery combines the combo spec with the optional concrete deck list.
// The returned exit code is meaningful only when err is non-nil.
func buildQuery(deckPath, combosPath string, store *cards.Store, cfg *config.Config, sims int, seed *uint64) (*sim.Query, int, error) {
	data, err := os.ReadFile(combosPath)
	if err != nil {
		return nil, exitFailure, fmt.Errorf("read combo spec: %w", err)
	}
	var spec comboSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, exitInvalidQuery, fmt.Errorf("parse combo spec: %w", err)
	}

	query := &sim.Query{
		Deck: sim.DeckSpec{
			DeckSize: spec.DeckSize,
			HandSize: spec.HandSize,
		},
		Combos:   spec.Combos,
		SimCount: spec.SimCount,
		Seed:     spec.Seed,
	}
	if query.Deck.HandSize == 0 {
		query.Deck.HandSize = 5
	}
	if sims > 0 {
		query.SimCount = sims
	}
	if query.SimCount == 0 {
		query.SimCount = cfg.Simulation.DefaultSims
	}
	if cfg.Simulation.MaxSims > 0 && query.SimCount > cfg.Simulation.MaxSims {
		query.SimCount = cfg.Simulation.MaxSims
	}
	if seed != nil {
		query.Seed = seed
	}

	if deckPath != "" {
		list, err := deck.ParseFile(deckPath, store)
		if err != nil {
			code := exitMalformedDeck
			if errors.Is(err, deck.ErrFileTooLarge) {
				code = exitFileTooLarge
			}
			return nil, code, err
		}
		if len(list.UnmatchedIDs) > 0 {
			slog.Warn("deck list has unmatched card ids", "ids", list.UnmatchedIDs)
		}
		query.Deck.Main = list.Main
		query.Deck.Extra = list.Extra
		query.Deck.Side = list.Side
		query.Deck.DeckSize = list.MainSize()
	}

	return query, exitOK, nil
}
