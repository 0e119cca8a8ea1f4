package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/deps"
	"github.com/user/framecut-cli/mpv"
	"github.com/user/framecut-cli/tui"
	"github.com/user/framecut-cli/tui/forms"
)

var Version = "0.1.0"

var previewFlag bool

var rootCmd = &cobra.Command{
	Use:   "framecut [video-file]",
	Short: "Cut frame-accurate clips that keep their wall-clock timing",
	Long: `framecut steps through a recording frame by frame in the terminal,
lets you mark a start and an end frame, and exports exactly that range as a
new video next to the source.

Outputs for match.mp4:
  match_cliped.mp4       the clip, stamped with the recording's creation_time
  match_timestamps.json  wall-clock time of every frame in the clip
  match_meta.json        ffprobe dump of the source

Keys: k/j one frame, K/J one second, l/h ten seconds, L/H thirty seconds,
a mark start, s mark end, q export, Q quit, m toggle clock, x snapshot, ? help.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var videoPath string
		if len(args) == 1 {
			videoPath = args[0]
		} else {
			if err := forms.NewVideoPathForm(&videoPath).Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}
		}

		a, err := newApp(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		if errs := deps.CheckAll(); len(errs) > 0 {
			return errors.Join(errs...)
		}

		src, err := a.openSource(cmd.Context(), videoPath)
		if err != nil {
			return err
		}
		defer src.Close()

		if !forms.IsVideoFile(src.path) {
			fmt.Printf("Warning: %s does not look like a video file\n", filepath.Base(src.path))
		}

		paths := clip.OutputPaths(src.path)
		ok, err := confirmOverwrite(paths)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled, existing clip kept.")
			return nil
		}

		opts := tui.Options{
			VideoPath: src.path,
			Decoder:   src.dec,
			Origin:    src.origin,
			HasOrigin: src.hasOrigin,
			Stamper:   a.cfg.Stamper(),
			Processor: a.processor(),
			Logger:    a.log,
		}
		if previewFlag {
			preview, err := mpv.StartPreview(a.cfg.Mpv, src.path)
			if err != nil {
				fmt.Printf("Preview unavailable: %v\n", err)
			} else {
				defer preview.Close()
				opts.Preview = preview
			}
		}

		outcome, err := tui.Run(opts)
		if err != nil {
			return err
		}
		if outcome.Result == nil {
			a.log.Info("picker closed without export")
			return nil
		}

		a.writeMeta(src, paths)
		printResult(outcome.Result)
		a.log.Info("interactive export done", zap.String("export_id", outcome.Result.ID))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framecut version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the required tools (ffmpeg, ffprobe) and the optional preview player (mpv) are installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		allGood := true
		for _, dep := range []struct {
			name     string
			check    func() error
			optional bool
		}{
			{"ffmpeg", deps.CheckFfmpeg, false},
			{"ffprobe", deps.CheckFfprobe, false},
			{"mpv", deps.CheckMpv, true},
		} {
			var depErr *deps.DependencyError
			switch err := dep.check(); {
			case err == nil:
				fmt.Printf("✓ %s: OK\n", dep.name)
			case errors.As(err, &depErr) && dep.optional:
				fmt.Printf("- %s: not found (optional, used by --preview)\n", dep.name)
				fmt.Printf("  Install from: %s\n", depErr.InstallURL)
			default:
				fmt.Printf("✗ %s: NOT FOUND\n", dep.name)
				if errors.As(err, &depErr) {
					fmt.Printf("  Install from: %s\n", depErr.InstallURL)
				}
				allGood = false
			}
		}

		fmt.Println()
		if !allGood {
			return errors.New("some required dependencies are missing")
		}
		fmt.Println("All required dependencies are installed!")
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for export history and logs")
	pf.BoolVar(&flags.noHistory, "no-history", false, "do not record exports in the history database")
	pf.StringVar(&flags.codec, "codec", "libx264", "ffmpeg encoder for the clip")
	pf.DurationVar(&flags.timestampOffset, "timestamp-offset", 0, "UTC offset the timestamp record is rendered in (e.g. 9h)")
	pf.DurationVar(&flags.creationTimeOffset, "creation-time-offset", 0, "shift applied to the clip's creation_time")
	pf.StringVar(&flags.origin, "origin", "", "recording start (RFC 3339) when the video has no creation_time")
	pf.BoolVar(&flags.noRemux, "no-remux", false, "keep the re-encoded clip without rewriting creation_time")
	pf.BoolVar(&flags.meta, "meta", true, "dump ffprobe metadata next to the clip")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "overwrite existing outputs without asking")

	rootCmd.Flags().BoolVar(&previewFlag, "preview", false, "mirror the selected frame in an mpv window")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
