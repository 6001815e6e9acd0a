package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"citypulse/database"
	"citypulse/models"
	"citypulse/service"
	"citypulse/ws"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	go hub.Run()

	store := database.NewMemoryStore()
	h := NewReportsHandler(service.NewReportService(store), hub)
	wsHandler := NewWebSocketHandler(hub)

	router := gin.New()
	router.POST("/reports", h.CreateReport)
	router.DELETE("/reports/:id", h.DeleteReport)
	router.GET("/ws/reports", wsHandler.ListenReports)
	router.GET("/ws/stats", wsHandler.FeedStats)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dialFeed(t *testing.T, server *httptest.Server) *gorilla.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/reports"
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClients blocks until the hub has registered the expected number of
// subscribers, so a broadcast fired right after dialing cannot be missed.
func waitForClients(t *testing.T, server *httptest.Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(server.URL + "/ws/stats")
		require.NoError(t, err)
		var stats struct {
			ConnectedClients int `json:"connectedClients"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		resp.Body.Close()
		if stats.ConnectedClients == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func readEvent(t *testing.T, conn *gorilla.Conn) models.ReportEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.ReportEvent
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestFeedBroadcastsCreatedEvent(t *testing.T) {
	server := newFeedServer(t)
	conn := dialFeed(t, server)
	waitForClients(t, server, 1)

	body := `{
		"name": "Deep pothole",
		"location": {"lat": 46.76, "lng": 23.58},
		"address": "Calea Turzii 100",
		"category": "POTHOLE",
		"severityLevel": "HIGH"
	}`
	resp, err := http.Post(server.URL+"/reports", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	event := readEvent(t, conn)
	assert.Equal(t, models.EventCreated, event.Type)
	require.NotNil(t, event.Report)
	assert.Equal(t, "Deep pothole", event.Report.Name)
	assert.Equal(t, event.Report.ID, event.ReportID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestFeedBroadcastsDeletedEvent(t *testing.T) {
	server := newFeedServer(t)

	body := `{
		"name": "Overflowing bin",
		"location": {"lat": 46.77, "lng": 23.59},
		"address": "Str. Memorandumului 5",
		"category": "WASTE",
		"severityLevel": "MEDIUM"
	}`
	resp, err := http.Post(server.URL+"/reports", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	var created models.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	conn := dialFeed(t, server)
	waitForClients(t, server, 1)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/reports/1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	event := readEvent(t, conn)
	assert.Equal(t, models.EventDeleted, event.Type)
	assert.Nil(t, event.Report)
	assert.Equal(t, created.ID, event.ReportID)
}

func TestFeedStats(t *testing.T) {
	server := newFeedServer(t)
	dialFeed(t, server)
	waitForClients(t, server, 1)
}
