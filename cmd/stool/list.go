package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arkveil/stool/internal/mainconfig"
)

func newListCmd() *cobra.Command {
	var (
		gameName   string
		mainConfig string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the archives stored for a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gameName == "" {
				return fmt.Errorf("list: --game is required")
			}
			if mainConfig == "" {
				p, err := mainconfig.DefaultPath()
				if err != nil {
					return fmt.Errorf("list: resolve default main config path: %w", err)
				}
				mainConfig = p
			}
			mc, err := mainconfig.LoadOrCreate(mainConfig)
			if err != nil {
				return fmt.Errorf("list: load main config: %w", err)
			}
			return listBackups(filepath.Join(mc.DataPath, gameName, "backups"))
		},
	}

	cmd.Flags().StringVar(&gameName, "game", "", "game name (also the data subdirectory)")
	cmd.Flags().StringVar(&mainConfig, "main-config", "", "path to the main config.toml (default: platform config dir)")
	return cmd
}

func listBackups(backupsDir string) error {
	entries, err := os.ReadDir(backupsDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no backups yet")
			return nil
		}
		return fmt.Errorf("list: read %s: %w", backupsDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
