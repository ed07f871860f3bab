package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/app/models"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userID", uuid.New())
		c.Set("roles", []models.RoleType{models.RoleType(c.Query("role"))})
		c.Next()
	}, NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, role string) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?role=" + role
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *gorillaws.Conn) (Event, error) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var ev Event
	_, data, err := conn.ReadMessage()
	if err != nil {
		return ev, err
	}
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev, nil
}

func TestHubDeliversEventsByAudience(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := newTestServer(t, hub)
	staff := dial(t, srv, "TEACHER")
	parent := dial(t, srv, "PARENTS")
	require.Eventually(t, func() bool { return hub.ClientsCount() == 2 }, time.Second, 10*time.Millisecond)

	ad := &models.AcademicData{ID: uuid.New(), Trimester: models.TrimesterFirst, AcademicYear: 2025, Period: models.Period1}
	hub.Publish(&Event{Type: EventAcademicDataCreated, AcademicData: ad, StaffOnly: true})

	ev, err := readEvent(t, staff)
	require.NoError(t, err)
	assert.Equal(t, EventAcademicDataCreated, ev.Type)
	assert.Equal(t, ad.ID, ev.AcademicData.ID)
	assert.False(t, ev.Timestamp.IsZero())

	_, err = readEvent(t, parent)
	assert.Error(t, err, "parents must not receive draft events")

	hub.Publish(&Event{Type: EventAcademicDataPublished, AcademicData: ad})
	ev, err = readEvent(t, staff)
	require.NoError(t, err)
	assert.Equal(t, EventAcademicDataPublished, ev.Type)
}

func TestHubPublishWithoutRunnerDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(&Event{Type: EventAcademicDataUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with a full queue")
	}
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 1), userID: uuid.New(), logger: zerolog.Nop()}
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ClientsCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, open := <-client.send
	assert.False(t, open, "stopping the hub closes client channels")

	returned := make(chan bool, 1)
	go func() {
		// what a readPump does when its connection drops late
		hub.Unregister(client)
		returned <- hub.Register(&Client{hub: hub, send: make(chan []byte, 1), logger: zerolog.Nop()})
	}()
	select {
	case registered := <-returned:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked on a stopped hub")
	}
}
