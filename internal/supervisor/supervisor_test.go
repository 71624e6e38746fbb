// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain is used to run the goleak verification before and after tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubGuard replaces the kill and exit seams and counts invocations.
func stubGuard(t *testing.T, cancel context.CancelFunc) (*Guard, *int, *int) {
	t.Helper()

	kills := 0
	exits := 0

	g := Arm(context.Background(), cancel)
	g.kill = func(_ syscall.Signal) error {
		kills++
		return nil
	}
	g.exit = func(_ int) {
		exits++
	}

	return g, &kills, &exits
}

func TestArmInitialState(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, _, _ := stubGuard(t, cancel)
	defer g.Disarm()

	assert.Equal(t, Armed, g.State())
}

func TestTriggerKillsGroupOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	g, kills, exits := stubGuard(t, cancel)

	g.trigger(ctx, syscall.SIGTERM)

	assert.Equal(t, Triggered, g.State())
	assert.Equal(t, 1, *kills)
	assert.Equal(t, 1, *exits)

	// The dispatch context must be cancelled before the group kill lands.
	select {
	case <-ctx.Done():
	default:
		t.Fatal("context not cancelled on trigger")
	}

	// A second signal must not re-run the kill sequence.
	g.trigger(ctx, syscall.SIGINT)
	assert.Equal(t, 1, *kills)
	assert.Equal(t, 1, *exits)

	// Unblock the watch goroutine for goleak.
	close(g.sigCh)
	<-g.done
}

func TestDisarmIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, kills, _ := stubGuard(t, cancel)

	g.Disarm()
	assert.Equal(t, Disarmed, g.State())

	// Triggering after disarm is a no-op.
	g.trigger(ctx, syscall.SIGTERM)
	assert.Equal(t, Disarmed, g.State())
	assert.Equal(t, 0, *kills)

	// Disarm is idempotent.
	g.Disarm()
	assert.Equal(t, Disarmed, g.State())
}

func TestSignalDeliveryTriggers(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, kills, exits := stubGuard(t, cancel)

	// Deliver a signal through the channel as signal.Notify would.
	g.sigCh <- syscall.SIGTERM
	<-g.done

	require.Equal(t, Triggered, g.State())
	assert.Equal(t, 1, *kills)
	assert.Equal(t, 1, *exits)
}
