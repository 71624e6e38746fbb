// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package supervisor installs one-shot signal handling that tears down the
// whole process group when the run is interrupted.
//
// The guard is a small state machine: ARMED on creation, then exactly one of
// TRIGGERED (a handled signal arrived; the process group is killed once) or
// DISARMED (the run completed normally and the handlers were retired before
// exit). Both final states are terminal; a guard never re-arms.
//
// Child processes are spawned into the caller's process group, so a single
// group-wide SIGTERM reaches every in-flight external command, including
// nested worker pool children.
package supervisor

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"traceplot/internal/ctxlog"
)

// State is the guard's lifecycle state.
type State int32

// Guard states. Triggered and Disarmed are terminal.
const (
	Armed State = iota
	Triggered
	Disarmed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Triggered:
		return "triggered"
	case Disarmed:
		return "disarmed"
	default:
		return "unknown"
	}
}

var handledSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
}

// Guard owns the installed signal handlers for a single run.
type Guard struct {
	state  atomic.Int32
	sigCh  chan os.Signal
	cancel context.CancelFunc
	done   chan struct{}

	// Seams for tests.
	kill func(sig syscall.Signal) error
	exit func(code int)
}

// Arm installs the interrupt/terminate/hangup handlers and starts watching.
// cancel is invoked on trigger so the dispatch loop stops before the group
// kill lands.
func Arm(ctx context.Context, cancel context.CancelFunc) *Guard {
	g := &Guard{
		sigCh:  make(chan os.Signal, 1),
		cancel: cancel,
		done:   make(chan struct{}),
		kill:   killGroup,
		exit:   os.Exit,
	}
	g.state.Store(int32(Armed))

	signal.Notify(g.sigCh, handledSignals...)

	go g.watch(ctx)

	return g
}

// State returns the guard's current state.
func (g *Guard) State() State {
	return State(g.state.Load())
}

// Disarm retires the handlers before a normal exit. It is a no-op unless the
// guard is still armed.
func (g *Guard) Disarm() {
	if !g.state.CompareAndSwap(int32(Armed), int32(Disarmed)) {
		return
	}

	signal.Stop(g.sigCh)
	close(g.sigCh)
	<-g.done
}

func (g *Guard) watch(ctx context.Context) {
	defer close(g.done)

	sig, ok := <-g.sigCh
	if !ok {
		return
	}

	g.trigger(ctx, sig)
}

// trigger runs the kill sequence at most once. Further handled signals are
// released back to their default disposition by signal.Stop, so a second
// interrupt terminates the process without re-running the sequence.
func (g *Guard) trigger(ctx context.Context, sig os.Signal) {
	if !g.state.CompareAndSwap(int32(Armed), int32(Triggered)) {
		return
	}

	signal.Stop(g.sigCh)

	ctxlog.Error(ctx, "interrupted, terminating process group", "signal", sig.String())
	g.cancel()

	if err := g.kill(syscall.SIGTERM); err != nil {
		ctxlog.Error(ctx, "failed to signal process group", "error", err)
	}

	g.exit(1)
}

// killGroup signals the whole process group of the current process.
func killGroup(sig syscall.Signal) error {
	return syscall.Kill(0, sig)
}
