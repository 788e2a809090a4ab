package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/uclaacm/bruinbot/internal/domain"
	"github.com/uclaacm/bruinbot/internal/present/rest/presenter"
	"github.com/uclaacm/bruinbot/internal/service"
	"github.com/uclaacm/bruinbot/internal/usecase"
)

// Handler is the ops surface: health, read-only membership queries
// and a realtime event feed. The bot itself never talks to it.
type Handler struct {
	profile *usecase.ProfileUsecase
	stats   *usecase.StatsUsecase
	signal  *service.SignalService
}

func NewHandler(
	profile *usecase.ProfileUsecase,
	stats *usecase.StatsUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		profile: profile,
		stats:   stats,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealthz)
	e.GET("/api/v1/stats/:kind", h.handleStats)
	e.GET("/api/v1/members/:id", h.handleMember)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealthz(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.stats.Rows(ctx, c.Param("kind"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "unknown stat kind")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, rows)
}

func (h *Handler) handleMember(c echo.Context) error {
	ctx := c.Request().Context()

	member, err := h.profile.Lookup(ctx, c.Param("id"))
	if err != nil {
		if ue, ok := domain.AsUserError(err); ok {
			switch ue.Kind {
			case domain.KindValidation:
				return presenter.BadRequestMessage(c, ue.Message)
			case domain.KindNotFound:
				return presenter.NotFound(c, ue.Message)
			}
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, member)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type string `json:"type"`
}

// handleRealtime streams membership events over a websocket. Events
// are forwarded verbatim from the signal channel.
func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	sub := h.signal.Subscribe(ctx)
	defer sub.Close()

	quit := make(chan struct{})

	go func() {
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-quit:
			return nil
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			err := ws.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
