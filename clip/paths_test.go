package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPaths(t *testing.T) {
	got := OutputPaths("/videos/2024/match.day1.MOV")

	assert.Equal(t, Paths{
		Intermediate: "/videos/2024/match.day1_c.mp4",
		Output:       "/videos/2024/match.day1_cliped.mp4",
		Record:       "/videos/2024/match.day1_timestamps.json",
		Meta:         "/videos/2024/match.day1_meta.json",
	}, got)
}

func TestSnapshotPath(t *testing.T) {
	assert.Equal(t, "clips/a_frame42.jpg", SnapshotPath("clips/a.mp4", 42))
	assert.Equal(t, "noext_frame0.jpg", SnapshotPath("noext", 0))
	assert.Equal(t, "clips/a_frame42_timestamp.jpg", StampedSnapshotPath("clips/a.mp4", 42))
}
