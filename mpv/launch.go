package mpv

import (
	"os"
	"os/exec"
	"time"

	"github.com/user/framecut-cli/deps"
)

// connectTimeout bounds how long Launch waits for mpv to create its socket.
const connectTimeout = 5 * time.Second

// Launch starts a paused mpv on videoPath with the IPC socket enabled.
// It checks that binary is installed first and returns an error with install
// link if not. The returned *exec.Cmd can be used for cleanup.
func Launch(binary, videoPath, socketPath string) (*exec.Cmd, error) {
	if err := deps.Check(binary, deps.MpvInstallURL); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	_ = os.Remove(socketPath)

	cmd := exec.Command(binary,
		"--input-ipc-server="+socketPath,
		"--pause",
		"--keep-open=always",
		"--hr-seek=yes",
		"--osd-level=1",
		videoPath,
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Preview is a running mpv window that follows the selected frame.
type Preview struct {
	cmd    *exec.Cmd
	client *Client
}

// StartPreview launches mpv and connects to it.
func StartPreview(binary, videoPath string) (*Preview, error) {
	cmd, err := Launch(binary, videoPath, DefaultSocketPath)
	if err != nil {
		return nil, err
	}
	client := NewClient(DefaultSocketPath)
	if err := connectWithRetry(client, connectTimeout); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}
	return &Preview{cmd: cmd, client: client}, nil
}

// NewPreview wraps an already connected client; cmd may be nil.
func NewPreview(client *Client, cmd *exec.Cmd) *Preview {
	return &Preview{cmd: cmd, client: client}
}

func connectWithRetry(c *Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := c.Connect()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Show seeks the preview to seconds and overlays label.
func (p *Preview) Show(seconds float64, label string) error {
	if err := p.client.SeekExact(seconds); err != nil {
		return err
	}
	if label == "" {
		return nil
	}
	return p.client.ShowText(label, 2*time.Second)
}

// Close quits mpv and reaps the process.
func (p *Preview) Close() error {
	// mpv may drop the connection before answering quit
	_ = p.client.Quit()
	closeErr := p.client.Close()
	if p.cmd != nil {
		done := make(chan error, 1)
		go func() { done <- p.cmd.Wait() }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			_ = p.cmd.Process.Kill()
			<-done
		}
	}
	return closeErr
}
