package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

func TestWalkClientPlanWalk(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a walking path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/route/walk", r.URL.Path)
			w.Write([]byte(`{"path": {"totalDuration": 9, "totalDistance": 620, "polyline": "wxyz"}}`))
		}))
		defer srv.Close()

		client := NewWalkClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		plan, err := client.PlanWalk(ctx, testFrom, testTo)

		require.NoError(t, err)
		assert.Equal(t, 9.0, plan.TotalDurationMinutes)
		assert.Equal(t, 620.0, plan.TotalDistanceMeters)
		assert.Equal(t, "wxyz", plan.Polyline)
	})

	t.Run("null path surfaces as ErrNoRoute", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"path": null}`))
		}))
		defer srv.Close()

		client := NewWalkClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanWalk(ctx, testFrom, testTo)

		assert.ErrorIs(t, err, routing.ErrNoRoute)
	})

	t.Run("rate limited responses are retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"path": {"totalDuration": 9, "totalDistance": 620}}`))
		}))
		defer srv.Close()

		client := NewWalkClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		plan, err := client.PlanWalk(ctx, testFrom, testTo)

		require.NoError(t, err)
		assert.Equal(t, 9.0, plan.TotalDurationMinutes)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("undecodable responses fail without retrying", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		client := NewWalkClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanWalk(ctx, testFrom, testTo)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal walk response")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("cancellation stops the retry loop", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		client := NewWalkClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanWalk(cancelled, testFrom, testTo)

		assert.Error(t, err)
	})
}
