package api

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/attachments"
	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/domain"
)

const maxAttachmentSize = 5 << 20 // 5 MiB

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are open, matching the board's allow-all CORS policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Register wires up all routes on the provided Echo instance.
func Register(e *echo.Echo, hub *Hub, att attachments.Storage, logger *log.Logger) {
	e.GET("/ws", serveWS(hub, logger))
	e.GET("/api/health", health())
	e.POST("/api/attachments", uploadAttachment(att, logger))
	e.GET("/api/attachments/:id", fetchAttachment(att, logger))
}

func health() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}

// serveWS upgrades the connection and blocks until it drops. The
// snapshot is sent by the hub as part of registration, before any
// subsequent broadcast can reach this session.
func serveWS(hub *Hub, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// Upgrade has already written the error response.
			return nil
		}
		metrics := newConnMetrics(c.Request().Context(), logger, c.RealIP())
		sess := newSession(hub, conn, metrics)
		if !hub.attach(sess) {
			conn.Close()
			metrics.Log()
			return nil
		}
		go sess.writePump()
		sess.readPump()
		metrics.Log()
		return nil
	}
}

func uploadAttachment(att attachments.Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.String(http.StatusBadRequest, "missing file")
		}
		mimeType := fh.Header.Get(echo.HeaderContentType)
		if !attachments.Allowed(mimeType) {
			return c.String(http.StatusBadRequest, "unsupported file type")
		}
		f, err := fh.Open()
		if err != nil {
			return c.String(http.StatusBadRequest, "unreadable file")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize+1))
		if err != nil {
			return c.String(http.StatusBadRequest, "unreadable file")
		}
		if len(data) > maxAttachmentSize {
			return c.String(http.StatusRequestEntityTooLarge, "file too large")
		}

		url, err := att.Store(c.Request().Context(), data, attachments.Metadata{
			Name:     fh.Filename,
			MimeType: mimeType,
		})
		if err != nil {
			logger.Errorf("store attachment: %v", err)
			return c.String(http.StatusInternalServerError, "store failed")
		}
		return c.JSON(http.StatusCreated, domain.Attachment{
			ID:       path.Base(url),
			Name:     fh.Filename,
			MimeType: mimeType,
			URL:      url,
		})
	}
}

func fetchAttachment(att attachments.Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, meta, err := att.Fetch(c.Request().Context(), "/api/attachments/"+c.Param("id"))
		if errors.Is(err, attachments.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		if err != nil {
			logger.Errorf("fetch attachment: %v", err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.Blob(http.StatusOK, meta.MimeType, data)
	}
}
