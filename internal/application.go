package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/rest"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultStrategy, err := ai.ParseStrategy(conf.AI.Strategy)
	if err != nil {
		return fmt.Errorf("invalid ai strategy: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedis(ctx, storage.Options{
		Addr:     redisAddrString,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	pickers := NewPickers(conf.AI.Seed)

	gameRepo := repository.NewGameRepository(redisStorage, conf.SessionTTL)
	botService := service.NewBotService(logger, servicePickers(pickers))
	gameUseCase := usecase.NewGameManager(logger, gameRepo, botService)

	restServer := rest.New(logger, defaultStrategy, restPickers(pickers))
	wsServer := websocket.New(logger, gameUseCase, defaultStrategy)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application stopped")

	return nil
}

// NewPickers builds one picker per strategy. A zero seed gives a fresh random source.
func NewPickers(seed uint64) map[ai.Strategy]*ai.Picker {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	return map[ai.Strategy]*ai.Picker{
		ai.StrategyMinimax: ai.NewPicker(ai.StrategyMinimax, nil),
		ai.StrategyRandom:  ai.NewPicker(ai.StrategyRandom, rng),
	}
}

func servicePickers(pickers map[ai.Strategy]*ai.Picker) map[ai.Strategy]service.MovePicker {
	out := make(map[ai.Strategy]service.MovePicker, len(pickers))
	for strategy, picker := range pickers {
		out[strategy] = picker
	}
	return out
}

func restPickers(pickers map[ai.Strategy]*ai.Picker) map[ai.Strategy]rest.MovePicker {
	out := make(map[ai.Strategy]rest.MovePicker, len(pickers))
	for strategy, picker := range pickers {
		out[strategy] = picker
	}
	return out
}
