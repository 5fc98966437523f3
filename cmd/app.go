// Package cmd implements the capital command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/capital"
	"github.com/etnz/capital/config"
	"github.com/etnz/capital/events"
	"github.com/etnz/capital/logging"
	"github.com/etnz/capital/store/memory"
	"github.com/etnz/capital/store/sqlite"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type command struct {
	subcommands.Command
	group string
}

// commands lists the application commands with their help group.
func commands() []command {
	return []command{
		{&topicCmd{}, ""},

		{&initCmd{}, "ledger"},
		{&closeCmd{}, "ledger"},

		{newRecordCmd(capital.DepositCash), "transactions"},
		{newRecordCmd(capital.WithdrawCash), "transactions"},
		{newRecordCmd(capital.MarketingExpense), "transactions"},
		{newRecordCmd(capital.BuyStable), "transactions"},
		{newRecordCmd(capital.SellStable), "transactions"},
		{&editCmd{}, "transactions"},
		{&rmCmd{}, "transactions"},
		{&importCmd{}, "transactions"},

		{&txCmd{}, "reports"},
		{&monthCmd{}, "reports"},
		{&historyCmd{}, "reports"},
		{&chartCmd{}, "reports"},

		{&serveCmd{}, "services"},
		{&watchCmd{}, "services"},
		{&assistCmd{}, "services"},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, cmd := range commands() {
		c.Register(cmd.Command, cmd.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ownerFlag = flag.String("owner", "", "Owner of the book, overrides CAPITAL_OWNER")
var backendFlag = flag.String("backend", "", "Storage backend (file, sqlite, memory), overrides CAPITAL_BACKEND")
var verboseFlag = flag.Bool("v", false, "Log at debug level")

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *ownerFlag != "" {
		cfg.Owner = *ownerFlag
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}
	if *verboseFlag {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is what every command needs to work on the book.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	book     *capital.Book
	notifier capital.Notifier
	closers  []func() error
}

// Close releases the store and the broker connection.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// openStore opens the storage backend the configuration designates.
func openStore(cfg *config.Config) (capital.Store, func() error, error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return memory.New(), func() error { return nil }, nil
	default:
		return capital.NewFileStore(cfg.DataDir), func() error { return nil }, nil
	}
}

// openNotifier publishes to the broker when an AMQP URL is configured, and to the log otherwise.
func openNotifier(cfg *config.Config, log *zap.Logger) (capital.Notifier, func() error, error) {
	if cfg.AMQPURL == "" {
		return events.LogNotifier{Log: log}, func() error { return nil }, nil
	}
	c, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, log)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// openApp loads the configuration and opens the book.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not open the %s store: %w", cfg.Backend, err)
	}
	a.closers = append(a.closers, closeStore)

	notifier, closeNotifier, err := openNotifier(cfg, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("could not connect to the broker: %w", err)
	}
	a.closers = append(a.closers, closeNotifier)
	a.notifier = notifier

	a.book = capital.NewBook(store,
		capital.WithUnits(cfg.Units()),
		capital.WithLogger(log),
		capital.WithNotifier(notifier))
	return a, nil
}

// withApp opens the app, runs f and reports its error.
func withApp(ctx context.Context, f func(ctx context.Context, a *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := f(ctx, a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// IsCommand reports whether name is a builtin command.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
