package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ledgercast/ledgercast/pkg/lifecycle"
)

func TestStartupHooksRunBeforeReady(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Int32
	lc.OnStartup(func() { ran.Add(1) })
	lc.OnStartup(func() { ran.Add(1) })

	if lc.Ready() {
		t.Error("Ready() = true before WaitForStartup")
	}

	lc.WaitForStartup()

	if got := ran.Load(); got != 2 {
		t.Errorf("startup hooks ran = %d, want 2", got)
	}
	if !lc.Ready() {
		t.Error("Ready() = false after WaitForStartup")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error = %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	close(release)

	if err == nil {
		t.Error("Shutdown = nil error, want timeout")
	}
}
