package main

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/gravitas-games/triprime/internal/config"
	"github.com/gravitas-games/triprime/internal/decision"
	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/internal/gamemap"
	"github.com/gravitas-games/triprime/internal/logging"
	"github.com/gravitas-games/triprime/internal/server"
	"github.com/gravitas-games/triprime/pkg/models"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/triprime.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, os.Stderr)
	log.Info().Str("path", configPath).Msg("configuration loaded")

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	log.Info().Uint64("seed", seed).Msg("random source seeded")

	// Console players share one reader so buffered input is not lost between them.
	stdin := bufio.NewReader(os.Stdin)
	seats := make([]engine.Seat, 0, len(cfg.Players))
	for _, pc := range cfg.Players {
		player, err := models.NewPlayer(models.PlayerID(pc.ID), pc.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid player")
		}
		plog := log.With().Str("player", pc.Name).Logger()
		var src engine.DecisionSource = decision.NewHeuristic(rng, plog)
		if pc.Kind == config.KindConsole {
			src = decision.NewConsole(pc.Name, stdin, os.Stdout, src, plog)
		}
		seats = append(seats, engine.Seat{Player: player, Source: src})
		log.Info().Int("id", pc.ID).Str("name", pc.Name).Str("kind", pc.Kind).Str("color", player.Color).Msg("player seated")
	}

	gameID := cfg.Game.ID
	if gameID == "" {
		gameID = uuid.NewString()
	}

	sinks := engine.MultiSink{engine.LogSink{Logger: log}}
	var spectators *server.Server
	errChan := make(chan error, 1)
	if cfg.Spectator.Enabled {
		spectators = server.New(cfg.Spectator, gameID, log)
		sinks = append(sinks, spectators)
		go func() {
			if err := spectators.Start(cfg.Spectator.Addr()); err != nil {
				errChan <- err
			}
		}()
	}

	game, err := engine.New(seats, engine.Options{
		ID:             gameID,
		Board:          gamemap.NewBoard(rng),
		MaxRounds:      cfg.Game.MaxRounds,
		PlacementShips: cfg.Game.PlacementShips,
		Sink:           sinks,
		Logger:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game")
	}

	done := make(chan engine.Result, 1)
	go func() { done <- game.Run() }()

	// Wait for the game, an interrupt signal or a server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case res := <-done:
		printResult(res)
	case err := <-errChan:
		log.Error().Err(err).Msg("spectator server error")
	case sig := <-sigChan:
		log.Info().Stringer("signal", sig).Msg("interrupted, stopping")
	}

	if spectators != nil {
		if err := spectators.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}
	log.Info().Msg("stopped")
}

func printResult(res engine.Result) {
	fmt.Printf("Game over after %d rounds\n", res.Rounds)
	for _, s := range res.Scores {
		fmt.Printf("  %-12s %-5s %3d points (final bonus %d)\n", s.Name, s.Color, s.Total, res.FinalBonus[s.ID])
	}
	fmt.Printf("Winner(s): %v\n", res.Winners)
}
