package server

import (
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/Prompt-Benchmark/internal/api/middleware"
	"ctchen222/Prompt-Benchmark/internal/api/response"
	"ctchen222/Prompt-Benchmark/internal/validator"
	"ctchen222/Prompt-Benchmark/pkg/proto"
)

const maxMessageSize = 64 << 10

// handleWebSocket upgrades the connection and answers each evaluate message
// in turn until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.Path),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	user := middleware.CurrentUser(c)
	if user != nil {
		span.SetAttributes(attribute.Int64("user.id", user.ID))
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "WebSocket connection error", "error", err)
			}
			return
		}

		var msg proto.ClientToServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if !s.write(conn, proto.Error("invalid message format")) {
				return
			}
			continue
		}
		if err := validator.GetValidator().Struct(&msg); err != nil {
			if !s.write(conn, proto.Error(validator.Describe(err))) {
				return
			}
			continue
		}

		outcome, err := s.evaluations.Evaluate(ctx, *msg.Prompt, user)
		if err != nil {
			_, message := response.Status(err)
			slog.ErrorContext(ctx, "WebSocket evaluation failed", "error", err)
			if !s.write(conn, proto.Error(message)) {
				return
			}
			continue
		}
		if !s.write(conn, proto.Results(outcome.Results, outcome.Persisted)) {
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, msg *proto.ServerToClientMessage) bool {
	if err := conn.WriteJSON(msg); err != nil {
		slog.Warn("Failed to write WebSocket message", "message.type", msg.Type, "error", err)
		return false
	}
	return true
}
