// Package preview supervises the application's local preview server as a
// subprocess for the lifetime of a render run.
package preview

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Options configures how the preview server is spawned and torn down.
type Options struct {
	// Command is the argv used to serve the built bundle, e.g.
	// ["npm", "run", "preview", "--", "--port", "4173"].
	Command []string
	// Settle is the fixed delay after spawn before the server is presumed
	// ready. This is not a health check: a server still booting when the
	// delay elapses yields render failures downstream, not a start error.
	Settle time.Duration
	// StopGrace is how long Stop waits after SIGTERM before sending SIGKILL.
	StopGrace time.Duration
}

// Server is a handle to a running preview server process.
type Server struct {
	cmd      *exec.Cmd
	waitCh   chan error
	grace    time.Duration
	progress io.Writer

	stopOnce sync.Once
	stopErr  error
}

// Start spawns the preview server and blocks for the settle delay.
// If the process exits before the delay elapses, Start fails and no
// rendering should be attempted.
func Start(opts Options, progress io.Writer) (*Server, error) {
	if len(opts.Command) == 0 {
		return nil, errors.New("preview command is empty")
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	if progress != nil {
		cmd.Stdout = progress
		cmd.Stderr = progress
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start preview server: %w", err)
	}

	s := &Server{
		cmd:      cmd,
		waitCh:   make(chan error, 1),
		grace:    opts.StopGrace,
		progress: progress,
	}
	go func() { s.waitCh <- cmd.Wait() }()

	s.logf("preview server started (pid %d), settling for %s", cmd.Process.Pid, opts.Settle)

	select {
	case err := <-s.waitCh:
		if err != nil {
			return nil, fmt.Errorf("preview server exited during startup: %w", err)
		}
		return nil, errors.New("preview server exited before settle delay elapsed")
	case <-time.After(opts.Settle):
	}

	return s, nil
}

// Stop terminates the preview server: SIGTERM first, escalating to SIGKILL
// if the process has not exited within the grace period. Stop is idempotent;
// repeated calls return the first result.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.logf("stopping preview server (pid %d)", s.cmd.Process.Pid)

		if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			// Process already gone; collect its exit status.
			<-s.waitCh
			return
		}

		select {
		case <-s.waitCh:
		case <-time.After(s.grace):
			s.logf("preview server did not exit within %s, killing", s.grace)
			if err := s.cmd.Process.Kill(); err != nil {
				s.stopErr = fmt.Errorf("kill preview server: %w", err)
			}
			<-s.waitCh
		}
	})
	return s.stopErr
}

func (s *Server) logf(format string, args ...any) {
	if s.progress != nil {
		fmt.Fprintf(s.progress, format+"\n", args...)
	}
}
