package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/workflow"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeWait = 10 * time.Second

// StreamProgress sends the operation snapshot as JSON every time it
// changes and closes the connection after the terminal state. Bursts of
// progress updates are coalesced; the terminal snapshot is always sent.
func (h *Handler) StreamProgress(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}
	defer conn.Close()

	changed := make(chan struct{}, 1)
	unsubscribe := sess.Slot.Subscribe(func(workflow.Operation) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn("Unexpected WebSocket close error", zap.Error(err))
				}
				return
			}
		}
	}()

	last := workflow.Operation{Progress: -1}
	for {
		op := sess.Slot.Snapshot()
		if op.State != last.State || op.Progress != last.Progress {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(op); err != nil {
				h.log.Debug("WebSocket write failed", zap.Error(err))
				return nil
			}
			last = op
		}
		if op.State.Terminal() {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, op.State.String()))
			return nil
		}
		select {
		case <-changed:
		case <-sess.Done():
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
