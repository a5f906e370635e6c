package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/Veraticus/remind-agent/pkg/config"
	"github.com/Veraticus/remind-agent/pkg/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		configPath string
		logLevel   string
		help       bool
	)

	flags := flag.NewFlagSet("remind-agent", flag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "Path to config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.BoolVarP(&help, "help", "h", false, "Show help message")
	flags.Usage = func() { printUsage(flags) }

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if help {
		printUsage(flags)
		return 0
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		return 1
	}
	defer func() { _ = closer.Close() }()

	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	// Create dependencies
	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create dependencies")
		return 1
	}
	defer deps.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewApplication(deps).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("remind-agent failed")
		return 1
	}
	return 0
}

func printUsage(flags *flag.FlagSet) {
	fmt.Println("remind-agent - desktop reminder agent")
	fmt.Println()
	fmt.Println("Usage: remind-agent [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flags.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  REMIND_API_URL              Reminder endpoint, {USERNAME} is replaced with the login name")
	fmt.Println("  REMIND_DELAY_MINUTES        Snooze duration in minutes (default: 60)")
	fmt.Println("  REMIND_USER_ACTIVE_SECONDS  Idle threshold in seconds (default: 60)")
	fmt.Println("  REMIND_FONT_SIZE            Dialog font size (default: 14)")
	fmt.Println("  REMIND_TICK_INTERVAL        Check interval (default: 60s)")
	fmt.Println("  REMIND_HTTP_TIMEOUT         Fetch timeout (default: none)")
	fmt.Println("  REMIND_LOG_LEVEL            Log level (default: info)")
	fmt.Println("  REMIND_CONFIG               Path to config file")
	fmt.Println()
	fmt.Printf("Configuration file: %s\n", config.Path())
}
