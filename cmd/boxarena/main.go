// boxarena - first-person box arena in your terminal.
//
// Controls:
//
//	Click       - Capture the mouse (then click to shoot)
//	W/A/S/D     - Move (arrow keys work too)
//	Mouse       - Look around
//	Q/E         - Turn left/right
//	Space       - Shoot
//	X           - Toggle x-ray box outlines
//	R           - New arena
//	?           - Toggle HUD overlay
//	Esc         - Release the mouse, press again to quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/boxarena/internal/app"
	"github.com/taigrr/boxarena/internal/config"
	"github.com/taigrr/boxarena/internal/logging"
	"github.com/taigrr/boxarena/internal/stats"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath string
	preset     string
	seed       int64
	targetFPS  int
	statsPath  string
	verbose    bool

	// Snapshot flags
	snapshotOut    string
	snapshotWidth  int
	snapshotHeight int
	snapshotXRay   bool

	// Stats flags
	statsLimit int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boxarena",
	Short: "First-person box arena in your terminal",
	Long: `boxarena drops you into a foggy arena of randomly placed boxes.

Click to capture the mouse, walk with WASD or the arrow keys, and look
around with the mouse. The shooter and flash presets add a hitscan gun
that recolors whatever box it hits.

Run without a subcommand to play.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the current terminal",
	RunE:  runPlay,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the opening view to a PNG",
	Long: `Renders the first frame of an arena without a terminal.

Example:
  boxarena snapshot --preset shooter --seed 42 --out arena.png`,
	RunE: runSnapshot,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent play sessions",
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "Preset: classic, shooter or flash")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Arena seed (0 = random)")
	rootCmd.PersistentFlags().IntVar(&targetFPS, "fps", 0, "Target FPS (default from config)")
	rootCmd.PersistentFlags().StringVar(&statsPath, "stats-db", "", "Session database (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "boxarena.png", "Output PNG path")
	snapshotCmd.Flags().IntVar(&snapshotWidth, "width", 320, "Image width in pixels")
	snapshotCmd.Flags().IntVar(&snapshotHeight, "height", 180, "Image height in pixels")
	snapshotCmd.Flags().BoolVar(&snapshotXRay, "xray", false, "Draw box outlines")

	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 10, "Number of sessions to show")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// defaultConfigPath returns ~/.config/boxarena/config.yaml, or "" when the
// config dir is unknown.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "boxarena", "config.yaml")
}

// loadConfig loads the config file and applies command-line overrides on
// top of it, then builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = targetFPS
	}
	if flags.Changed("stats-db") {
		cfg.Stats.Path = statsPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err = logging.New(cfg.Logging, verbose)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := stats.Open(cfg.Stats.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := app.New(cfg, logger, store)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := app.Snapshot(cfg, logger, snapshotOut, snapshotWidth, snapshotHeight, snapshotXRay); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, preset %s)\n", snapshotOut, snapshotWidth, snapshotHeight, cfg.Preset)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Stats.Path == "" {
		return fmt.Errorf("no session database configured (set stats.path or --stats-db)")
	}

	store, err := stats.Open(cfg.Stats.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, err := store.Recent(ctx, statsLimit)
	if err != nil {
		return err
	}
	return printSessions(cmd.OutOrStdout(), sessions)
}

func printSessions(w io.Writer, sessions []stats.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tPRESET\tSEED\tTIME\tSHOTS\tHITS\tACCURACY")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%.0f%%\n",
			s.Started.Format(time.DateTime), s.Preset, s.Seed,
			s.Duration.Round(time.Second), s.Shots, s.Hits, s.Accuracy()*100)
	}
	return tw.Flush()
}
