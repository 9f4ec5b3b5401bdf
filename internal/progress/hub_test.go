package progress

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trilion/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	log.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

func TestHubDeliversStageEvents(t *testing.T) {
	hub := NewHub()

	router := gin.New()
	router.GET("/ws/:taskId", func(c *gin.Context) {
		hub.Serve(c, c.Param("taskId"))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	wsUrl := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/task-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsUrl, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Subscription registers asynchronously after the upgrade.
	require.Eventually(t, func() bool {
		return hub.SubscriberCount("task-1") == 1
	}, time.Second, 10*time.Millisecond)

	hub.StageChanged("task-1", "acquiring")

	var event Event
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "task-1", event.TaskID)
	assert.Equal(t, "acquiring", event.Stage)
}

func TestHubIgnoresUnsubscribedTasks(t *testing.T) {
	hub := NewHub()
	// No subscribers; must not block or panic.
	hub.StageChanged("nobody-listening", "done")
	assert.Equal(t, 0, hub.SubscriberCount("nobody-listening"))
}
