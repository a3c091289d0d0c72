package http

import (
	"context"
	"encoding/json"
	"net/http"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler runs one quiz session per WebSocket connection. The session lives
// exactly as long as the connection; a disconnect exits it.
type WSHandler struct {
	provider    app.QuestionProvider
	sessions    app.SessionRepository
	sessionOpts []app.SessionOption
	log         *logger.Logger
	upgrader    websocket.Upgrader
}

func NewWSHandler(provider app.QuestionProvider, sessions app.SessionRepository, log *logger.Logger, opts ...app.SessionOption) *WSHandler {
	return &WSHandler{
		provider:    provider,
		sessions:    sessions,
		sessionOpts: opts,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option string `json:"option"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and starts a session for ?country=.
// Inbound messages: select {option}, restart, exit.
// Outbound messages: session {sessionId}, then state <snapshot> on every change.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		http.Error(w, "missing country", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	opts := append([]app.SessionOption{app.WithLogger(h.log)}, h.sessionOpts...)
	session := app.NewSession(id, h.provider, opts...)
	h.sessions.Put(session)
	defer h.sessions.Delete(id)
	defer session.Exit()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes. After a
	// failed write it keeps draining so producers never block on a dead client.
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				failed = true
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: id}}

	// Exit closes updates, which ends this pump.
	go func() {
		defer close(updatesDone)
		for snap := range updates {
			send <- outboundMessage[any]{Type: "state", Payload: snap}
		}
	}()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go func() {
		if err := session.Start(ctx, country); err != nil {
			h.log.Warn("session start failed", "error", err)
		}
	}()

	h.log.Info("quiz session opened", "session_id", id, "country", country)

readLoop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			// Rejected selections (already answered, not active) are silent no-ops.
			session.SelectOption(payload.Option)
		case "restart":
			session.Restart()
		case "exit":
			session.Exit()
			break readLoop
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	// Exit before tearing down the pumps so the final state reaches the client.
	session.Exit()
	<-updatesDone
	close(send)
	<-writerDone
	h.log.Info("quiz session closed", "session_id", id)
}
