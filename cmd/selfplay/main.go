package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/rocketscienceinc/tictactoe-minimax/internal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/logging"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/selfplay"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	xStrategy := flag.String("x", "", "strategy for X (minimax|random), defaults to ai.x-strategy")
	oStrategy := flag.String("o", "", "strategy for O (minimax|random), defaults to ai.o-strategy")
	delay := flag.Duration("delay", -1, "pause between moves, defaults to ai.move-delay")
	games := flag.Int("games", 1, "number of games to play")
	start := flag.String("board", "", `start position, e.g. "X../.O./..."`)
	first := flag.String("first", "X", "player to move first")
	seed := flag.Uint64("seed", 0, "seed of the random strategy, defaults to ai.seed")
	flag.Parse()

	if err := run(*configPath, options{
		xStrategy: *xStrategy,
		oStrategy: *oStrategy,
		delay:     *delay,
		games:     *games,
		board:     *start,
		first:     *first,
		seed:      *seed,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "selfplay failed: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	xStrategy, oStrategy string
	delay                time.Duration
	games                int
	board                string
	first                string
	seed                 uint64
}

func run(configPath string, opts options) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(conf.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.seed == 0 {
		opts.seed = conf.AI.Seed
	}
	pickers := app.NewPickers(opts.seed)

	x, err := pickerFor(pickers, opts.xStrategy, conf.AI.XStrategy)
	if err != nil {
		return fmt.Errorf("X: %w", err)
	}

	o, err := pickerFor(pickers, opts.oStrategy, conf.AI.OStrategy)
	if err != nil {
		return fmt.Errorf("O: %w", err)
	}

	if opts.delay < 0 {
		opts.delay = conf.AI.MoveDelay
	}

	board := tictactoe.EmptyBoard()
	if opts.board != "" {
		if board, err = tictactoe.ParseBoard(opts.board); err != nil {
			return err
		}
	}

	firstPlayer, err := tictactoe.ParsePlayer(opts.first)
	if err != nil {
		return err
	}

	runner := selfplay.NewRunner(logger, x, o, opts.delay)

	tally, err := runner.PlayMany(ctx, opts.games, board, firstPlayer)
	if err != nil {
		return err
	}

	logger.Info("selfplay finished",
		"x", x.Strategy(), "o", o.Strategy(),
		"games", tally.Games(), "xWins", tally.XWins, "oWins", tally.OWins, "draws", tally.Draws)

	return nil
}

func pickerFor(pickers map[ai.Strategy]*ai.Picker, flagValue, configValue string) (*ai.Picker, error) {
	name := flagValue
	if name == "" {
		name = configValue
	}

	strategy, err := ai.ParseStrategy(name)
	if err != nil {
		return nil, err
	}

	return pickers[strategy], nil
}
