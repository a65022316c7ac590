package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ProfessorXZ/Headquarters/internal/api"
	"github.com/ProfessorXZ/Headquarters/internal/builtin"
	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/config"
	"github.com/ProfessorXZ/Headquarters/internal/convert"
	"github.com/ProfessorXZ/Headquarters/internal/dispatch"
	"github.com/ProfessorXZ/Headquarters/internal/events"
	"github.com/ProfessorXZ/Headquarters/internal/lock"
	"github.com/ProfessorXZ/Headquarters/internal/log"
	"github.com/ProfessorXZ/Headquarters/internal/repl"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Printf("hq version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`hq - text command dispatch engine

Usage:
  hq <command> [flags]

Commands:
  start             Start the engine in foreground with the interactive console
  config check      Validate config syntax and seal integrity
  config seal       Authorize current config state (write checksum manifest)
  version           Show version information
  help              Show this help message

Start flags:
  --config <path>   Path to config file or directory (default: built-in defaults)
  --headless        Run without the console; block until SIGINT/SIGTERM
`)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	headless := fs.Bool("headless", false, "Run without the interactive console")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	log.Setup(cfg.Service.LogLevel, cfg.Service.LogFormat)
	logger := log.WithComponent("main")
	logger.Info("hq starting", "version", version, "service", cfg.Service.Name)

	if cfg.Service.LockPath != "" {
		instLock, err := lock.Acquire(cfg.Service.LockPath)
		if err != nil {
			logger.Error("failed to acquire instance lock (another instance may be running)",
				"path", cfg.Service.LockPath, "error", err)
			return 1
		}
		defer instLock.Release()
		logger.Info("acquired instance lock", "path", instLock.Path())
	}

	hub := events.NewHub(cfg.Events.Buffer)

	queue, err := newEngineQueue(cfg, hub)
	if err != nil {
		logger.Error("failed to build command registry", "error", err)
		return 1
	}

	if err := queue.Start(); err != nil {
		logger.Error("failed to start dispatch queue", "error", err)
		return 1
	}
	defer queue.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.API.Enabled {
		srv := api.New(api.Config{
			Listen:        cfg.API.Listen,
			APIKey:        cfg.API.Auth.APIKey,
			SubmitTimeout: cfg.Dispatch.SubmitTimeout,
		}, queue, queue.Registry(), hub, log.WithComponent("api"))
		go func() {
			if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("api server failed", "error", err)
				cancel()
			}
		}()
	}

	if *headless {
		logger.Info("running headless; waiting for signal")
		<-ctx.Done()
		return 0
	}

	if err := repl.Run(queue, hub, cfg.REPL.Prompt); err != nil {
		logger.Error("console failed", "error", err)
		return 1
	}
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hq config <check|seal> [flags]")
		return 1
	}
	switch args[0] {
	case "check":
		return runConfigCheck(args[1:])
	case "seal":
		return runConfigSeal(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", args[0])
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file or directory")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config check failed: %v\n", err)
		return 1
	}
	fmt.Printf("Config OK: service=%s log_level=%s pool_limit=%d\n",
		cfg.Service.Name, cfg.Service.LogLevel, cfg.Dispatch.PoolLimit)
	return 0
}

func runConfigSeal(args []string) int {
	fs := flag.NewFlagSet("config seal", flag.ExitOnError)
	configPath := fs.String("config", ".", "Path to config directory (or a file inside it)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	dir := *configPath
	if stat, err := os.Stat(dir); err == nil && !stat.IsDir() {
		dir = filepath.Dir(dir)
	}

	manifest, err := config.Seal(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config seal failed: %v\n", err)
		return 1
	}
	fmt.Printf("Sealed %d file(s) in %s\n", len(manifest.Hashes), dir)
	for name, hash := range manifest.Hashes {
		fmt.Printf("  %s  %s\n", hash[:16], name)
	}
	return 0
}

// newEngineQueue builds the queue with converters and builtins registered.
func newEngineQueue(cfg *config.Config, hub *events.Hub) (*dispatch.Queue, error) {
	reg := command.NewRegistry()
	convert.RegisterDefaults(reg)
	if err := builtin.RegisterAll(reg); err != nil {
		return nil, err
	}

	return dispatch.New(reg,
		dispatch.WithPoolLimit(cfg.Dispatch.PoolLimit),
		dispatch.WithPollInterval(cfg.Dispatch.PollInterval),
		dispatch.WithHub(hub),
	), nil
}
