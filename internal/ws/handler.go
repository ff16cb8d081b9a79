package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/partyrounds/backend/internal/hub"
	"github.com/partyrounds/backend/internal/session"
	"github.com/partyrounds/backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and bridges it to the session actor.
// The first client event must be a join naming the team and identity;
// everything after is routed through FromClient.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 8)

		// Writer goroutine: drains the session outbox until it closes.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		joined := false
		defer func() {
			if joined {
				// The actor closes the outbox as part of unbinding. A
				// stopped session already closed it during shutdown.
				select {
				case sess.Inbox() <- session.Leave{ConnID: connID}:
				case <-sess.Done():
				}
			} else {
				close(out)
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			if !joined {
				if cm.Type != "join" {
					writeError(r.Context(), conn, "join first")
					continue
				}
				joinReply := make(chan error, 1)
				select {
				case sess.Inbox() <- session.Join{
					ConnID:   connID,
					TeamName: cm.Team,
					Identity: cm.Identity,
					Outbox:   out,
					Reply:    joinReply,
				}:
				case <-sess.Done():
					writeError(r.Context(), conn, "session closed")
					return
				}
				var joinErr error
				select {
				case joinErr = <-joinReply:
				case <-sess.Done():
					select {
					case joinErr = <-joinReply:
					default:
						writeError(r.Context(), conn, "session closed")
						return
					}
				}
				if joinErr != nil {
					writeError(r.Context(), conn, joinErr.Error())
					continue
				}
				joined = true
				log.Debug("connection joined",
					zap.String("session", code), zap.String("identity", cm.Identity))
				continue
			}

			select {
			case sess.Inbox() <- session.FromClient{ConnID: connID, Msg: cm}:
			case <-sess.Done():
				return
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, text string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "error", Error: text})
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
