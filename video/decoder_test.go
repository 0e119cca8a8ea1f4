package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/frame/frametest"
)

// fakeSource describes the stream a scripted ffmpeg serves at 10 fps.
type fakeSource struct {
	frames   int
	dropped  int // -1 for none
	offset   float64
	showinfo bool
	fail     bool
}

// fakeFFmpeg writes a shell script that behaves like the decode half of
// ffmpeg: it honours -ss, writes each 2x1 rgb24 frame as its zero-padded
// index and logs a showinfo line per frame. Every start is appended to the
// returned calls file.
func fakeFFmpeg(t *testing.T, src fakeSource) (bin, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	if _, err := exec.LookPath("awk"); err != nil {
		t.Skip("awk not installed")
	}

	dir := t.TempDir()
	calls = filepath.Join(dir, "calls")
	showinfo := 0
	if src.showinfo {
		showinfo = 1
	}
	var body string
	if src.fail {
		body = `echo "match.mp4: Invalid data found when processing input" >&2
exit 1`
	} else {
		body = fmt.Sprintf(`start=$(awk -v s="$ss" 'BEGIN { v = (s - %[3]g) * 10; if (v < 0) v = 0; printf "%%d", v + 0.5 }')
i=$start
n=0
while [ "$i" -lt %[1]d ]; do
  if [ "$i" -ne %[2]d ]; then
    printf '%%06d' "$i"
    if [ %[4]d -eq 1 ]; then
      pts=$(awk -v i="$i" 'BEGIN { printf "%%.6f", %[3]g + i / 10 }')
      echo "[Parsed_showinfo_0 @ 0x5581] n: $n pts: $i pts_time:$pts duration: 1 fmt:rgb24" >&2
    fi
    n=$((n + 1))
  fi
  i=$((i + 1))
done`, src.frames, src.dropped, src.offset, showinfo)
	}

	script := fmt.Sprintf(`#!/bin/sh
ss=%[2]g
while [ $# -gt 0 ]; do
  if [ "$1" = "-ss" ]; then ss=$2; shift; fi
  shift
done
echo "$ss" >> %[1]q
%[3]s
`, calls, src.offset, body)

	bin = filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, calls
}

func startCount(t *testing.T, calls string) int {
	t.Helper()
	raw, err := os.ReadFile(calls)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(strings.Fields(string(raw)))
}

func openFake(t *testing.T, src fakeSource) (*Decoder, string) {
	t.Helper()
	bin, calls := fakeFFmpeg(t, src)
	tools := NewToolchain(bin, "", "", nil)
	info := frame.Info{
		Width:      2,
		Height:     1,
		FPS:        10,
		FrameRate:  "10/1",
		FrameCount: src.frames,
		StartTime:  time.Duration(src.offset * float64(time.Second)),
	}
	dec, err := tools.OpenDecoder("match.mp4", info)
	require.NoError(t, err)
	t.Cleanup(func() { dec.Close() })
	return dec, calls
}

func readAt(t *testing.T, dec *Decoder, index int) string {
	t.Helper()
	require.NoError(t, dec.Seek(index))
	payload, ok, err := dec.Read()
	require.NoError(t, err)
	require.True(t, ok, "no frame after seeking to %d", index)
	return string(payload)
}

func TestDecoder_StreamsWithoutRestart(t *testing.T) {
	dec, calls := openFake(t, fakeSource{frames: 10, dropped: -1, showinfo: true})

	for i := 0; i < 4; i++ {
		assert.Equal(t, fmt.Sprintf("%06d", i), readAt(t, dec, i))
		assert.Equal(t, i, dec.Position())
	}
	assert.Equal(t, 1, startCount(t, calls), "consecutive seeks continue the running process")
	assert.InDelta(t, 0.3, dec.Elapsed().Seconds(), 1e-6)
}

func TestDecoder_DroppedFrameReportsActualPosition(t *testing.T) {
	dec, calls := openFake(t, fakeSource{frames: 10, dropped: 5, showinfo: true})

	assert.Equal(t, "000006", readAt(t, dec, 5))
	assert.Equal(t, 6, dec.Position())

	// seeking to the frame just read replays it without a new process
	assert.Equal(t, "000006", readAt(t, dec, 6))
	assert.Equal(t, 6, dec.Position())
	assert.Equal(t, 1, startCount(t, calls))

	// a jump restarts ffmpeg with -ss
	assert.Equal(t, "000009", readAt(t, dec, 9))
	assert.Equal(t, 2, startCount(t, calls))
}

func TestDecoder_PositionIsRelativeToStreamStart(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: -1, offset: 2, showinfo: true})

	assert.Equal(t, "000003", readAt(t, dec, 3))
	assert.Equal(t, 3, dec.Position())
	assert.InDelta(t, 0.3, dec.Elapsed().Seconds(), 1e-6)
}

func TestDecoder_QuietShowinfoAssumesContiguousStream(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: -1, showinfo: false})

	assert.Equal(t, "000002", readAt(t, dec, 2))
	assert.Equal(t, 2, dec.Position())
	assert.Equal(t, "000003", readAt(t, dec, 3))
	assert.Equal(t, 3, dec.Position())
	assert.InDelta(t, 0.3, dec.Elapsed().Seconds(), 1e-6)
}

func TestDecoder_EOFReapsProcess(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: -1, showinfo: true})

	assert.Equal(t, "000009", readAt(t, dec, 9))
	payload, ok, err := dec.Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, payload)
	assert.Nil(t, dec.cmd)
	assert.Equal(t, 9, dec.Position(), "position stays on the last frame read")
}

func TestDecoder_FailingProcessIsUnreadable(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: -1, fail: true})

	require.NoError(t, dec.Seek(0))
	_, ok, err := dec.Read()
	assert.False(t, ok)
	assert.ErrorIs(t, err, frame.ErrSourceUnreadable)
	assert.Contains(t, err.Error(), "Invalid data found")
}

func TestDecoder_ExportAcrossDroppedFrame(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: 5, showinfo: true})
	w := &frametest.Writer{}
	origin := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	stamps, err := (&clip.Exporter{}).Export(context.Background(), dec, w, frame.Range{Start: 3, End: 8}, origin)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 6, 7, 8}, w.Indices())
	require.Equal(t, 5, stamps.Len())
	for n, want := range []string{".300000Z", ".400000Z", ".600000Z", ".700000Z", ".800000Z"} {
		assert.Equal(t, "2024-05-01T10:00:00"+want, stamps.At(n).Text, "Frame%d", n)
	}
	assert.Equal(t, 6, stamps.At(2).Source)
	assert.True(t, w.Closed)
}

func TestDecoder_BackwardNavigationSkipsDroppedFrame(t *testing.T) {
	dec, _ := openFake(t, fakeSource{frames: 10, dropped: 5, showinfo: true})
	nav := frame.NewNavigator(dec)

	cur, err := nav.Goto(-1, 6)
	require.NoError(t, err)
	require.Equal(t, 6, cur.Index)

	prev, err := nav.Goto(cur.Index, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, prev.Index)
	assert.Equal(t, "000004", string(prev.Payload))
}
