package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/framecut-cli/deps"
	"github.com/user/framecut-cli/pkg/timeutil"
	"github.com/user/framecut-cli/video"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <video-file>",
	Short: "Show what framecut reads from a video",
	Long:  `Print the stream properties and recording origin framecut uses for navigation and timestamps.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Flags(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := deps.CheckFfprobe(); err != nil {
			return err
		}

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		p, err := a.tools.Probe(cmd.Context(), absPath)
		if err != nil {
			return err
		}

		if probeJSON {
			_, err := os.Stdout.Write(p.Raw)
			return err
		}

		info := p.Info
		fmt.Printf("File:        %s\n", filepath.Base(absPath))
		fmt.Printf("Codec:       %s\n", info.Codec)
		fmt.Printf("Size:        %dx%d\n", info.Width, info.Height)
		fmt.Printf("Frame rate:  %s (%.3f fps)\n", info.FrameRate, info.FPS)
		fmt.Printf("Frames:      %d (0-%d)\n", info.FrameCount, info.MaxFrame())
		fmt.Printf("Duration:    %s\n", timeutil.FormatElapsed(info.Duration))
		if info.StartTime != 0 {
			fmt.Printf("Start time:  %s\n", timeutil.FormatElapsed(info.StartTime))
		}
		switch {
		case p.OriginErr == nil:
			fmt.Printf("Origin:      %s\n", video.FormatCreationTime(p.Origin))
		case errors.Is(p.OriginErr, video.ErrNoOrigin):
			fmt.Println("Origin:      none (pass --origin to set one)")
		default:
			fmt.Printf("Origin:      unreadable (%v)\n", p.OriginErr)
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "print the raw ffprobe output")
	rootCmd.AddCommand(probeCmd)
}
