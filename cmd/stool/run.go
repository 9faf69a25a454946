package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arkveil/stool/internal/archive"
	"github.com/arkveil/stool/internal/engine"
	"github.com/arkveil/stool/internal/gameconfig"
	"github.com/arkveil/stool/internal/logging"
	"github.com/arkveil/stool/internal/mainconfig"
	"github.com/arkveil/stool/internal/ui"
)

// gracefulShutdownTimeout bounds how long run waits for the engine's exit
// backup and shutdown sequence after the first interrupt before returning
// anyway.
const gracefulShutdownTimeout = 5 * time.Minute

func newRunCmd() *cobra.Command {
	var (
		gameName   string
		gameConfig string
		mainConfig string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch a game's save state and back it up on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameName == "" {
				return fmt.Errorf("run: --game is required")
			}
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("run: invalid --log-level %q: %w", logLevel, err)
			}
			return runEngine(gameName, gameConfig, mainConfig, level)
		},
	}

	cmd.Flags().StringVar(&gameName, "game", "", "game name (also the data subdirectory)")
	cmd.Flags().StringVar(&gameConfig, "config", "", "path to the game's TOML config (default: <game>.toml)")
	cmd.Flags().StringVar(&mainConfig, "main-config", "", "path to the main config.toml (default: platform config dir)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	return cmd
}

func runEngine(gameName, gameConfigPath, mainConfigPath string, level zerolog.Level) error {
	log := logging.NewDefault(level)

	if mainConfigPath == "" {
		p, err := mainconfig.DefaultPath()
		if err != nil {
			return fmt.Errorf("run: resolve default main config path: %w", err)
		}
		mainConfigPath = p
	}
	mc, err := mainconfig.LoadOrCreate(mainConfigPath)
	if err != nil {
		return fmt.Errorf("run: load main config: %w", err)
	}

	if gameConfigPath == "" {
		gameConfigPath = gameName + ".toml"
	}
	gc, err := gameconfig.Load(gameConfigPath)
	if err != nil {
		return fmt.Errorf("run: load game config %s: %w", gameConfigPath, err)
	}

	codec := archive.New()
	sink := &ui.Logging{Log: log}
	eng := engine.New(gameName, gc, mc.DataPath, codec, sink, log)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received interrupt, shutting down")
		cancel()
	}()

	go readStdinRequests(ctx, eng, log)

	runDone := make(chan error, 1)
	go func() { runDone <- eng.Run(ctx) }()

	select {
	case err := <-runDone:
		return err
	case <-ctx.Done():
	}

	select {
	case err := <-runDone:
		return err
	case <-time.After(gracefulShutdownTimeout):
		return fmt.Errorf("run: engine did not shut down within %v", gracefulShutdownTimeout)
	}
}

// readStdinRequests relays line-oriented manual commands to the engine:
//
//	backup [description]
//	restore <archive name>
//	autobackup on|off
func readStdinRequests(ctx context.Context, eng *engine.Engine, log zerolog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "backup":
			desc := "Manual"
			if len(fields) > 1 {
				desc = strings.Join(fields[1:], " ")
			}
			eng.Send(engine.BackupRequest{Kind: engine.RequestCreateBackup, ArchiveName: engine.ManualBackupName(desc)})
		case "restore":
			if len(fields) < 2 {
				log.Warn().Msg("restore requires an archive name")
				continue
			}
			eng.Send(engine.BackupRequest{Kind: engine.RequestRestoreBackup, ArchiveName: filepath.Base(fields[1])})
		case "autobackup":
			if len(fields) < 2 {
				log.Warn().Msg("autobackup requires on|off")
				continue
			}
			eng.SetAutoBackup(strings.EqualFold(fields[1], "on"))
		default:
			log.Warn().Str("line", line).Msg("unrecognized command")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("stdin read error")
	}
}
