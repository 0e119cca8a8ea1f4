// Package mpv drives an mpv window over its JSON IPC socket so the frame
// picked in the terminal can be previewed at full resolution.
package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DefaultSocketPath is where Launch asks mpv to listen.
var DefaultSocketPath = filepath.Join(os.TempDir(), "framecut-mpv.sock")

// DefaultTimeout bounds one request/response exchange.
const DefaultTimeout = 2 * time.Second

var (
	ErrNotConnected   = errors.New("mpv: not connected")
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
)

type ipcRequest struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

type ipcResponse struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
}

// Client talks to one mpv instance. Calls are serialized; event lines mpv
// interleaves with responses are skipped.
type Client struct {
	// Timeout bounds each exchange so a stalled player cannot freeze the
	// caller. Zero means DefaultTimeout.
	Timeout time.Duration

	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

// NewClient returns a client for socketPath, or DefaultSocketPath when empty.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{socketPath: socketPath}
}

// Connect dials the socket. Calling it on a connected client is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSocketNotFound, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.reader = nil, nil
	return err
}

// GetTimePos returns the playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	v, err := c.do("get_property", "time-pos")
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv: time-pos is %T, want a number", v)
	}
	return f, nil
}

// SeekExact moves playback to seconds using mpv's frame-exact seek.
func (c *Client) SeekExact(seconds float64) error {
	_, err := c.do("seek", strconv.FormatFloat(seconds, 'f', 6, 64), "absolute+exact")
	return err
}

func (c *Client) Pause(paused bool) error {
	_, err := c.do("set_property", "pause", paused)
	return err
}

// ShowText displays text as an on-screen message for d.
func (c *Client) ShowText(text string, d time.Duration) error {
	_, err := c.do("show-text", text, d.Milliseconds())
	return err
}

// Quit asks mpv to exit.
func (c *Client) Quit() error {
	_, err := c.do("quit")
	return err
}

// do sends one newline-terminated command and waits for the response that
// carries its request_id.
func (c *Client) do(name string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.nextID++
	req := ipcRequest{Command: append([]any{name}, args...), RequestID: c.nextID}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mpv: encode %s: %w", name, err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := c.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("mpv: %s: %w", name, err)
	}
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("mpv: send %s: %w", name, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv: read %s response: %w", name, err)
		}
		var resp ipcResponse
		if json.Unmarshal(line, &resp) != nil || resp.RequestID != req.RequestID {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s: %s", name, resp.Error)
		}
		return resp.Data, nil
	}
}
