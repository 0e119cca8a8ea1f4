package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Check looks up binary in PATH (or accepts it as a path) and reports a
// DependencyError with installURL when it is missing.
func Check(binary, installURL string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return &DependencyError{
			Name:       binary,
			InstallURL: installURL,
		}
	}
	return nil
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return Check("mpv", MpvInstallURL)
}

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error {
	return Check("ffmpeg", FfmpegInstallURL)
}

// CheckFfprobe checks if ffprobe (shipped with ffmpeg) is available in PATH
func CheckFfprobe() error {
	return Check("ffprobe", FfmpegInstallURL)
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones.
// mpv is optional and only used for the preview window.
func CheckAll() []error {
	var errors []error

	if err := CheckFfmpeg(); err != nil {
		errors = append(errors, err)
	}

	if err := CheckFfprobe(); err != nil {
		errors = append(errors, err)
	}

	return errors
}
