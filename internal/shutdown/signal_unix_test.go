//go:build unix

package shutdown_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/leandrodaf/midiplay/internal/shutdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyOnSignal(t *testing.T) {
	c := shutdown.New(context.Background())
	release := c.NotifyOn(syscall.SIGUSR1)
	defer release()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	assert.Eventually(t, c.Stopped, 2*time.Second, time.Millisecond)
}

func TestReleaseTwice(t *testing.T) {
	c := shutdown.New(context.Background())
	release := c.NotifyOn(syscall.SIGUSR2)
	release()
	release()
	assert.False(t, c.Stopped())
}
