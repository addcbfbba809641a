package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"AstroChart/internal/domain/models"
	apphttp "AstroChart/pkg/http"
	"AstroChart/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type streamMessage struct {
	Type           string                `json:"type"` // events, done, error
	Transiting     string                `json:"transiting,omitempty"`
	Events         []models.TransitEvent `json:"events,omitempty"`
	Truncated      bool                  `json:"truncated,omitempty"`
	FailedBrackets int                   `json:"failed_brackets,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// StreamExactTransits runs an exact-aspect search over a websocket,
// flushing each transiting body's events as its scan completes instead
// of holding the whole multi-month result back.
func (h *Handler) StreamExactTransits(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	var req models.TransitSearchRequest
	if err := conn.ReadJSON(&req); err != nil {
		return writeStreamError(conn, "malformed request")
	}
	if err := apphttp.ValidateStruct(&req); err != nil {
		return writeStreamError(conn, err.Error())
	}

	bodies := req.TransitingBodies
	if len(bodies) == 0 {
		bodies = make([]string, 0, len(models.DefaultBodies))
		for _, b := range models.DefaultBodies {
			bodies = append(bodies, string(b))
		}
	}

	ctx := c.Request().Context()
	var truncated bool
	failed := 0

	for _, body := range bodies {
		sub := req
		sub.TransitingBodies = []string{body}

		resp, err := h.transits.FindExact(ctx, &sub)
		if err != nil {
			h.log.Warn("streamed search failed",
				logger.String("transiting", body),
				logger.Error(err),
			)
			if werr := writeStreamError(conn, err.Error()); werr != nil {
				return werr
			}
			continue
		}

		truncated = truncated || resp.Truncated
		failed += resp.FailedBrackets

		if err := conn.WriteJSON(streamMessage{
			Type:       "events",
			Transiting: body,
			Events:     resp.Events,
		}); err != nil {
			return err
		}

		if resp.Truncated {
			break
		}
	}

	return conn.WriteJSON(streamMessage{
		Type:           "done",
		Truncated:      truncated,
		FailedBrackets: failed,
	})
}

func writeStreamError(conn *websocket.Conn, msg string) error {
	return conn.WriteJSON(streamMessage{Type: "error", Error: msg})
}
