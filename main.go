package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/api"
	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/attachments"
	"github.com/Hrick-08/websocket-kanban-vitest-playwright-2026/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	board := storage.NewBoard()
	board.Seed()

	att, err := newAttachmentStore()
	if err != nil {
		log.Fatalf("attachments: %v", err)
	}

	logger := log.New()
	hub := api.NewHub(board, logger)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go hub.Run(ctx)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	api.Register(e, hub, att, logger)

	staticDir := "frontend/dist"
	if v := os.Getenv("STATIC_DIR"); v != "" {
		staticDir = v
	}
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  staticDir,
		HTML5: true,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/ws" || strings.HasPrefix(p, "/api/")
		},
	}))

	listenAddr := ":5000"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

func newAttachmentStore() (attachments.Storage, error) {
	backend := os.Getenv("ATTACHMENTS_BACKEND")
	switch backend {
	case "", "memory":
		return attachments.NewMemory(), nil
	case "redis":
		redisConn := os.Getenv("REDIS_CONNECTION_STRING")
		if redisConn == "" {
			return nil, fmt.Errorf("missing redis config")
		}
		redisOpts, err := redis.ParseURL(redisConn)
		if err != nil {
			parts := strings.Split(redisConn, ",")
			redisOpts = &redis.Options{Addr: parts[0]}
			for _, p := range parts[1:] {
				kv := strings.SplitN(p, "=", 2)
				if len(kv) != 2 {
					continue
				}
				switch strings.ToLower(kv[0]) {
				case "password":
					redisOpts.Password = kv[1]
				case "ssl":
					if strings.ToLower(kv[1]) == "true" {
						redisOpts.TLSConfig = &tls.Config{}
					}
				}
			}
		}
		ttl := time.Duration(0)
		if v := os.Getenv("ATTACHMENTS_TTL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("invalid ATTACHMENTS_TTL: %v", err)
			}
			ttl = d
		}
		return attachments.NewRedis(redis.NewClient(redisOpts), ttl), nil
	default:
		return nil, fmt.Errorf("unknown ATTACHMENTS_BACKEND %q", backend)
	}
}
