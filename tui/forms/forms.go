// Package forms provides huh-based prompts used before and around the picker.
package forms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// videoExtensions are the containers the picker expects; others are accepted
// with a warning by the caller.
var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true, ".mkv": true, ".avi": true,
}

// ValidateVideoPath reports whether path names a readable regular file.
func ValidateVideoPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("enter the path of a video file")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("video path can't be recognized: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// IsVideoFile reports whether path has a known video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// NewVideoPathForm asks for the source video. The answer is bound to path.
func NewVideoPathForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Video file").
				Description("Path of the recording to cut a clip from").
				Placeholder("match.mp4").
				Value(path).
				Validate(ValidateVideoPath),
		),
	).WithTheme(Theme())
}

// NewConfirmOverwriteForm asks whether existing outputs may be replaced.
// The result pointer is bound to the confirm field value.
func NewConfirmOverwriteForm(existing []string, overwrite *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Overwrite existing clip?").
				Description(strings.Join(existing, "\n")).
				Affirmative("Yes, overwrite").
				Negative("No, cancel").
				Value(overwrite),
		),
	).WithTheme(Theme())
}
