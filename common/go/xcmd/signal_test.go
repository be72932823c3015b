package xcmd

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitInterruptedCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, WaitInterrupted(ctx), context.DeadlineExceeded)
}

func TestInterruptedIs(t *testing.T) {
	err := fmt.Errorf("run: %w", Interrupted{Signal: syscall.SIGINT})
	require.True(t, errors.Is(err, Interrupted{}))
	require.False(t, errors.Is(errors.New("other"), Interrupted{}))
}
