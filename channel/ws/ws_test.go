package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/refinery/channel"
	"github.com/promptforge/refinery/core"
)

func TestHandlerStreamsSessionEvents(t *testing.T) {
	broker := channel.NewInMemoryBroker()
	defer broker.Close()

	srv := httptest.NewServer(NewHandler(broker))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?session=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// wait for the server-side subscription to attach
	require.Eventually(t, func() bool {
		return broker.SubscriberCount(core.Topic("s1")) == 1
	}, time.Second, 10*time.Millisecond)

	broker.Publish(core.Topic("s1"), core.NewProgressEvent("s1", "a1", core.StageStarted, "working"))

	var ev core.ProgressEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "s1", ev.SessionID)
	assert.Equal(t, core.StageStarted, ev.Stage)
}

func TestHandlerRequiresSessionParameter(t *testing.T) {
	broker := channel.NewInMemoryBroker()
	defer broker.Close()

	srv := httptest.NewServer(NewHandler(broker))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
