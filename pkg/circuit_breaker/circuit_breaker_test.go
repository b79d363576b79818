package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ThevergeOn/reservation-app/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	t.Run("stays closed on successes", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Second, 0.3, 2)
		for i := 0; i < 30; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
	})

	t.Run("opens after failure ratio and recovers", func(t *testing.T) {
		const timeout = 50 * time.Millisecond
		cb := circuit_breaker.New(10, timeout, 0.3, 2)

		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(failingService))
		}
		// breaker is open now, calls are rejected without invoking the service
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

		time.Sleep(timeout + 20*time.Millisecond)

		// half-open: successful probes close the breaker again
		for i := 0; i < 5; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		const timeout = 50 * time.Millisecond
		cb := circuit_breaker.New(10, timeout, 0.3, 2)

		for i := 0; i < 4; i++ {
			require.Error(t, cb.Call(failingService))
		}
		time.Sleep(timeout + 20*time.Millisecond)

		require.Error(t, cb.Call(failingService))
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
	})
}
