package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/deps"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/pkg/timeutil"
)

var exportFlags struct {
	start string
	end   string
	quiet bool
}

var exportCmd = &cobra.Command{
	Use:   "export <video-file>",
	Short: "Export a frame range without the interactive picker",
	Long: `Export the frames from --start to --end (inclusive) of a video.

Bounds are frame indices ("450") or times ("0:15", "1:02:03.5", "15s")
converted to frames at the video's frame rate. Ctrl+C stops the export; the
clip written so far is finalized and no timestamp record is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Flags(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if errs := deps.CheckAll(); len(errs) > 0 {
			return errors.Join(errs...)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, err := a.openSource(ctx, args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		rng, err := parseRange(exportFlags.start, exportFlags.end, src.probe.Info)
		if err != nil {
			return err
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

		proc := a.processor()
		var bar *progressbar.ProgressBar
		if !exportFlags.quiet {
			bar = newExportBar(rng.Len())
			proc.Exporter.OnFrame = func(_, source int) {
				_ = bar.Set(source - rng.Start + 1)
			}
		}

		result, err := proc.Run(ctx, src.dec, clip.Job{
			VideoPath: src.path,
			Range:     rng,
			Origin:    src.origin,
			Paths:     paths,
		})
		if bar != nil {
			_ = bar.Finish()
			fmt.Println()
		}
		if errors.Is(err, context.Canceled) {
			fmt.Printf("Export interrupted; partial clip left at %s, no timestamp record written.\n", paths.Intermediate)
			return nil
		}
		if err != nil {
			return err
		}

		a.writeMeta(src, paths)
		printResult(result)
		a.log.Info("export done", zap.String("export_id", result.ID))
		return nil
	},
}

// parseRange resolves --start and --end against the source's frame rate.
func parseRange(start, end string, info frame.Info) (frame.Range, error) {
	if start == "" || end == "" {
		return frame.Range{}, errors.New("--start and --end are required")
	}
	s, err := timeutil.ParseFrame(start, info.FPS)
	if err != nil {
		return frame.Range{}, fmt.Errorf("--start: %w", err)
	}
	e, err := timeutil.ParseFrame(end, info.FPS)
	if err != nil {
		return frame.Range{}, fmt.Errorf("--end: %w", err)
	}
	rng := frame.Range{Start: s, End: e}
	if err := rng.Validate(); err != nil {
		return frame.Range{}, err
	}
	return rng, nil
}

func newExportBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.start, "start", "", "first frame (index or time)")
	exportCmd.Flags().StringVar(&exportFlags.end, "end", "", "last frame, inclusive (index or time)")
	exportCmd.Flags().BoolVarP(&exportFlags.quiet, "quiet", "q", false, "no progress bar")
	rootCmd.AddCommand(exportCmd)
}
