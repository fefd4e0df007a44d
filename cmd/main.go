package main

import (
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/transport"
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

//go:embed censored/*.txt
var censoredFS embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting so every defer executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation dictionary (embedded, per-language files)
	dict, err := runtime.NewDictionaryLoader(censoredFS).Load("censored")
	if err != nil {
		return fmt.Errorf("dictionary loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(dict.Words, log)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}
	log.Info("Moderation ready", "words", len(dict.Words), "languages", dict.Languages)

	// 3. Relay state
	registry := runtime.NewRegistry()
	gateway := runtime.NewGateway(log, registry)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision (occupancy reporter)
	sup := workers.NewSupervisor(log)
	reporter := workers.NewReporterWorker(log, func() workers.OccupancyStats {
		return workers.OccupancyStats{Rooms: registry.Rooms(), Users: registry.Size()}
	}, config.ReportInterval)
	go sup.Add(reporter).Run(ctx)

	// 6. Optional debug server
	if config.DebugPort != nil {
		internal.StartDebugServer(log, *config.DebugPort, func() map[string]any {
			return map[string]any{
				"rooms": registry.Rooms(),
				"users": registry.Size(),
			}
		})
	}

	// 7. WebSocket relay, blocks until shutdown
	server := transport.NewServer(log, registry, gateway, &moderator,
		config.StaticDir, config.ConnectionBufferSize)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	if err := server.Run(ctx, address); err != nil {
		return err
	}

	// 8. Final Cleanup
	sup.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
