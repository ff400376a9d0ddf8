package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
)

var (
	testFrom = geo.LatLng{Lat: 37.5665, Lng: 126.9780}
	testTo   = geo.LatLng{Lat: 37.5512, Lng: 126.9882}
)

const transitBody = `{
	"path": {
		"totalDuration": 28,
		"totalDistance": 5400,
		"transferCount": 1,
		"polyline": "abc",
		"details": {
			"totalFare": 1500,
			"transferCount": 1,
			"walkingTime": 8,
			"walkingDistance": 600,
			"subPaths": [
				{"trafficType": 3, "distance": 300, "sectionTime": 4},
				{
					"trafficType": 1,
					"distance": 4800,
					"sectionTime": 20,
					"stationCount": 5,
					"lane": "Line 2",
					"way": "City Hall",
					"startCoord": {"lat": 37.565, "lng": 126.977},
					"endCoord": {"lat": 37.552, "lng": 126.988},
					"passStopCoords": [{"lat": 37.560, "lng": 126.982}]
				},
				{"trafficType": 3, "distance": 300, "sectionTime": 4}
			]
		}
	}
}`

func TestTransitClientPlanTransit(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a full transit path", func(t *testing.T) {
		var gotPayload routePayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			assert.Equal(t, "/route/transit", r.URL.Path)
			w.Write([]byte(transitBody))
		}))
		defer srv.Close()

		client := NewTransitClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		plan, err := client.PlanTransit(ctx, testFrom, testTo)

		require.NoError(t, err)
		assert.Equal(t, 28.0, plan.TotalDurationMinutes)
		assert.Equal(t, 5400.0, plan.TotalDistanceMeters)
		assert.Equal(t, 1, plan.TransferCount)
		assert.Equal(t, "abc", plan.Polyline)

		require.NotNil(t, plan.Details)
		assert.Equal(t, 1500, plan.Details.TotalFare)
		require.Len(t, plan.Details.SubPaths, 3)
		subway := plan.Details.SubPaths[1]
		assert.Equal(t, routing.TrafficSubway, subway.TrafficType)
		assert.Equal(t, "Line 2", subway.Lane)
		require.NotNil(t, subway.StartCoord)
		assert.InDelta(t, 37.565, subway.StartCoord.Lat, 1e-9)
		require.Len(t, subway.PassStopCoords, 1)

		assert.Equal(t, testFrom.Lat, gotPayload.From.Lat)
		assert.Equal(t, testTo.Lng, gotPayload.To.Lng)
	})

	t.Run("null path surfaces as ErrNoRoute after retries", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`{"path": null}`))
		}))
		defer srv.Close()

		client := NewTransitClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanTransit(ctx, testFrom, testTo)

		assert.ErrorIs(t, err, routing.ErrNoRoute)
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("server errors are retried until one succeeds", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) <= 2 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(transitBody))
		}))
		defer srv.Close()

		client := NewTransitClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		plan, err := client.PlanTransit(ctx, testFrom, testTo)

		require.NoError(t, err)
		assert.Equal(t, 28.0, plan.TotalDurationMinutes)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "malformed coordinates"}`))
		}))
		defer srv.Close()

		client := NewTransitClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanTransit(ctx, testFrom, testTo)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("an unreachable provider exhausts retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing is listening anymore

		client := NewTransitClient(srv.URL, 100, shared.NewMockClock(time.Now()))
		_, err := client.PlanTransit(ctx, testFrom, testTo)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries exceeded")
	})
}
