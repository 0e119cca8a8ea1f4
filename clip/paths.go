package clip

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Paths are the files produced for one source video.
type Paths struct {
	// Intermediate is the re-encoded clip before container metadata is rewritten.
	Intermediate string
	// Output is the final clip carrying the recording's creation_time.
	Output string
	// Record is the per-frame timestamp record.
	Record string
	// Meta is the raw probe dump.
	Meta string
}

// OutputPaths computes output files next to the source.
// For "/videos/match.mov": match_c.mp4, match_cliped.mp4, match_timestamps.json, match_meta.json.
func OutputPaths(videoPath string) Paths {
	base := basePath(videoPath)
	return Paths{
		Intermediate: base + "_c.mp4",
		Output:       base + "_cliped.mp4",
		Record:       base + "_timestamps.json",
		Meta:         base + "_meta.json",
	}
}

// SnapshotPath returns the JPEG path for a still of the given source frame.
func SnapshotPath(videoPath string, index int) string {
	return fmt.Sprintf("%s_frame%d.jpg", basePath(videoPath), index)
}

// StampedSnapshotPath returns the JPEG path for the same still with its
// clock drawn on.
func StampedSnapshotPath(videoPath string, index int) string {
	return fmt.Sprintf("%s_frame%d_timestamp.jpg", basePath(videoPath), index)
}

func basePath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
}
