package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/agent"
	"github.com/pranjalekhande/paddock-ai/internal/cache"
	"github.com/pranjalekhande/paddock-ai/internal/config"
	"github.com/pranjalekhande/paddock-ai/internal/f1data"
	"github.com/pranjalekhande/paddock-ai/internal/livetiming"
	"github.com/pranjalekhande/paddock-ai/internal/schedule"
	"github.com/pranjalekhande/paddock-ai/internal/service"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Frozen between the Austrian and the British Grand Prix weekends.
var testNow = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

type fakeAsker struct {
	answer agent.Answer
	err    error
	asked  string
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (agent.Answer, error) {
	f.asked = question
	return f.answer, f.err
}

type fakeUpdater struct {
	result service.UpdateResult
	err    error
}

func (f *fakeUpdater) Run(ctx context.Context) (service.UpdateResult, error) {
	return f.result, f.err
}

type fakeFeed struct {
	snapshot livetiming.Snapshot
	fresh    bool
}

func (f *fakeFeed) Latest() (livetiming.Snapshot, bool) {
	return f.snapshot, f.fresh
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:            8080,
		HealthPort:      8081,
		ReadTimeoutSec:  5,
		WriteTimeoutSec: 10,
		AllowedOrigins:  []string{"http://localhost:3000"},
	}
}

func newTestServer(t *testing.T, asker Asker, updater KnowledgeUpdater, live LiveFeed) (*Server, *service.F1Service) {
	t.Helper()

	log := quietLogger()
	store := schedule.NewStore("testdata/schedule.yaml", log)
	require.NoError(t, store.Load())

	chain := f1data.NewChain(log, f1data.NewStaticSource())
	svc := service.NewF1Service(store, chain, cache.NewResponseCache(100), nil, 2025, log)
	svc.SetClock(func() time.Time { return testNow })

	return New(testServerConfig(), svc, asker, updater, live, log), svc
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestAskEndpoint(t *testing.T) {
	asker := &fakeAsker{answer: agent.Answer{Answer: "Norris won.", SessionID: "s-1"}}
	srv, _ := newTestServer(t, asker, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/ask", `{"question": "Who won the last race?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Who won the last race?", asker.asked)

	var body agent.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Norris won.", body.Answer)
	assert.Equal(t, "s-1", body.SessionID)
}

func TestAskEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAsker{}, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/ask", `{"question": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/ask", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEndpointAgentMissing(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodPost, "/ask", `{"question": "hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpdateKnowledgeBaseEndpoint(t *testing.T) {
	updater := &fakeUpdater{result: service.UpdateResult{Status: "success", VectorCount: 3}}
	srv, _ := newTestServer(t, nil, updater, nil)

	rec := doRequest(t, srv, http.MethodPost, "/update-knowledge-base", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.UpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 3, body.VectorCount)
}

func TestUpdateKnowledgeBaseError(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("pinecone unreachable")}
	srv, _ := newTestServer(t, nil, updater, nil)

	rec := doRequest(t, srv, http.MethodPost, "/update-knowledge-base", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScheduleEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.ScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2025, body.Season)
	assert.Len(t, body.Events, 3)
	assert.Equal(t, 12, body.CurrentRound)
}

func TestScheduleWithTimingEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/schedule-with-timing", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.TimedScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Schedule, 3)
	assert.Equal(t, "practice1", body.Schedule[1].NextSession)
}

func TestCurrentRaceInfoEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/current-race-info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Austrian Grand Prix", body["name"])
	assert.NotContains(t, body, "live_timing")
}

func TestCurrentRaceInfoLiveTimingAttached(t *testing.T) {
	feed := &fakeFeed{
		snapshot: livetiming.Snapshot{SessionName: "Race", CurrentLap: 20, TotalLaps: 52},
		fresh:    true,
	}
	srv, svc := newTestServer(t, nil, nil, feed)
	// Mid-race during the British Grand Prix.
	svc.SetClock(func() time.Time { return time.Date(2025, 7, 6, 14, 30, 0, 0, time.UTC) })

	rec := doRequest(t, srv, http.MethodGet, "/f1/current-race-info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body currentRaceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.IsLive)
	require.NotNil(t, body.LiveTiming)
	assert.Equal(t, 20, body.LiveTiming.CurrentLap)
}

func TestNextRaceEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/next-race-info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info service.NextRaceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "British Grand Prix", info.Name)
	assert.Equal(t, 5, info.CountdownDays)

	rec = doRequest(t, srv, http.MethodGet, "/f1/next-race", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var next service.NextRaceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
	assert.Equal(t, 12, next.Round)
}

func TestLatestResultsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/latest-results", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Austrian Grand Prix", body["race"])
}

func TestStandingsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.StandingsTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Results)
	assert.Equal(t, "Oscar Piastri", body.Results[0].Driver)
}

func TestChampionshipLeaderEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/championship-leader", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.ChampionshipLeader
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Oscar Piastri", body.ChampionshipLeader)
	assert.Equal(t, "Lando Norris", body.LatestRaceWinner)
}

func TestPitWallAndBasicDataEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/pit-wall-data", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/f1/basic-data", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body service.BasicData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2025, body.Season)
}

func TestNotFoundRoute(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/f1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSAllowedOrigin(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/f1/schedule", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/f1/schedule", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
