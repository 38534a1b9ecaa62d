package shutdown_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/internal/shutdown"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type flakySink struct {
	sent   [][]byte
	failOn map[int]bool
}

func (s *flakySink) Send(data []byte) error {
	n := len(s.sent)
	s.sent = append(s.sent, append([]byte(nil), data...))
	if s.failOn[n] {
		return errors.New("device unplugged")
	}
	return nil
}

func TestSilenceSendsAllNotesOffOnEveryChannel(t *testing.T) {
	sink := &flakySink{}
	failed := shutdown.Silence(sink, nil)

	assert.Zero(t, failed)
	require.Len(t, sink.sent, shutdown.Channels)
	for ch, msg := range sink.sent {
		assert.Equal(t, []byte{0xB0 | byte(ch), 123, 0}, msg)
	}
}

func TestSilenceIgnoresFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core)

	sink := &flakySink{failOn: map[int]bool{0: true, 7: true, 15: true}}
	failed := shutdown.Silence(sink, log)

	assert.Equal(t, 3, failed)
	assert.Len(t, sink.sent, 16)
	assert.Equal(t, 1, logs.FilterMessage("failed to silence output").Len())
}

func TestSilenceWhenEverySendFails(t *testing.T) {
	fail := map[int]bool{}
	for i := 0; i < 16; i++ {
		fail[i] = true
	}
	sink := &flakySink{failOn: fail}
	assert.Equal(t, 16, shutdown.Silence(sink, nil))
	assert.Len(t, sink.sent, 16)
}

func TestStopIsIdempotentAndConcurrent(t *testing.T) {
	c := shutdown.New(context.Background())
	assert.False(t, c.Stopped())
	assert.NoError(t, c.Err())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Stop()
		}()
	}
	wg.Wait()

	assert.True(t, c.Stopped())
	assert.ErrorIs(t, c.Err(), contracts.ErrCancelled)
	select {
	case <-c.Context().Done():
	default:
		t.Fatal("context not done after Stop")
	}
}

func TestParentCancellationStops(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	c := shutdown.New(parent)
	cancel()

	assert.Eventually(t, c.Stopped, time.Second, time.Millisecond)
}
