// internal/term/process.go
package term

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/smash-editor/smash/internal/logger"
)

// Process runs a shell wired to a grid: stdout/stderr bytes stream
// through the parser into the grid, keystrokes go to stdin. Output is
// read on a background goroutine; parsing happens on the caller's
// goroutine via Drain so the grid stays single-threaded.
type Process struct {
	Grid   *Grid
	parser *Parser

	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	chunks  [][]byte
	exited  bool
	code    int
	pending []Event
}

// StartProcess launches shell (or $SHELL, or /bin/sh) in a grid of the
// given size.
func StartProcess(shell string, cols, rows int) (*Process, error) {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-i")
	cmd.Env = append(os.Environ(), "TERM=dumb")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open shell stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open shell stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", shell, err)
	}

	grid := NewGrid(cols, rows)
	p := &Process{
		Grid:   grid,
		parser: NewParser(grid),
		cmd:    cmd,
		stdin:  stdin,
	}
	go p.readLoop(stdout)
	return p, nil
}

func (p *Process) readLoop(stdout io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			p.mu.Lock()
			p.chunks = append(p.chunks, chunk)
			p.mu.Unlock()
		}
		if err != nil {
			break
		}
	}
	code := 0
	if err := p.cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			code = 1
		}
	}
	p.mu.Lock()
	p.exited = true
	p.code = code
	p.mu.Unlock()
	logger.Debugf("term: shell exited with code %d", code)
}

// Drain feeds buffered output through the parser into the grid and
// returns the resulting events. An exited child appends a final
// EventExited. Safe to call every loop tick; returns nil when idle.
func (p *Process) Drain() []Event {
	p.mu.Lock()
	chunks := p.chunks
	p.chunks = nil
	exited := p.exited
	p.exited = false // report once
	code := p.code
	p.mu.Unlock()

	var events []Event
	for _, chunk := range chunks {
		events = append(events, p.parser.Feed(chunk)...)
	}
	if exited {
		events = append(events, Event{Kind: EventExited, Code: code})
	}
	return events
}

// Write sends bytes (translated keystrokes) to the shell.
func (p *Process) Write(data []byte) error {
	if _, err := p.stdin.Write(data); err != nil {
		return fmt.Errorf("failed to write to shell: %w", err)
	}
	return nil
}

// Close shuts the shell down.
func (p *Process) Close() {
	p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}
