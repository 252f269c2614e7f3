package preview

import (
	"strings"
	"testing"
	"time"
)

func TestStart_EmptyCommand(t *testing.T) {
	_, err := Start(Options{}, nil)
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestStart_EarlyExitIsFatal(t *testing.T) {
	_, err := Start(Options{
		Command: []string{"sh", "-c", "exit 3"},
		Settle:  500 * time.Millisecond,
	}, nil)
	if err == nil {
		t.Fatal("expected error when server exits before settle delay")
	}
	if !strings.Contains(err.Error(), "exited") {
		t.Errorf("error should mention early exit, got: %v", err)
	}
}

func TestStartStop_HappyPath(t *testing.T) {
	srv, err := Start(Options{
		Command:   []string{"sleep", "60"},
		Settle:    50 * time.Millisecond,
		StopGrace: 2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestStop_Idempotent(t *testing.T) {
	srv, err := Start(Options{
		Command:   []string{"sleep", "60"},
		Settle:    50 * time.Millisecond,
		StopGrace: 2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("first Stop: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got: %v", err)
	}
}

func TestStop_EscalatesToKill(t *testing.T) {
	// A process that ignores SIGTERM must be killed after the grace period.
	srv, err := Start(Options{
		Command:   []string{"sh", "-c", `trap "" TERM; sleep 60`},
		Settle:    100 * time.Millisecond,
		StopGrace: 200 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop after escalation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return; SIGKILL escalation failed")
	}
}
