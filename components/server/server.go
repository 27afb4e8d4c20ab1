// Package server exposes the webhook, dashboard, and API surface over HTTP.
package server

import (
	"context"
	"errors"
	"sort"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	gocommand "github.com/goliatone/go-command"

	"github.com/gregt1993/Health-Bridge/components/healthboard"
	"github.com/gregt1993/Health-Bridge/components/healthboard/queries"
	"github.com/gregt1993/Health-Bridge/components/ingest"
	"github.com/gregt1993/Health-Bridge/components/ingest/commands"
	"github.com/gregt1993/Health-Bridge/pkg/states"
)

type boardCard interface {
	HTML() string
	OnSnapshotUpdate(ctx context.Context, snapshot states.Snapshot)
}

type notificationCenter interface {
	Pending() []ingest.Notification
	Dismiss(id string)
}

type trendSource interface {
	ChartHTML(entity states.EntityState) (string, error)
}

// Telemetry records request-level events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// Options wires the HTTP surface to the rest of the service. States, Sync,
// and Card are required.
type Options struct {
	States        *states.Registry
	Sync          gocommand.Commander[commands.SyncInput]
	TestConn      gocommand.Commander[commands.TestConnectionInput]
	Card          boardCard
	Board         *queries.BoardQuery
	Groups        *queries.UserGroupQuery
	Trends        trendSource
	Notifications notificationCenter
	Renderer      healthboard.Renderer
	Title         string
	Telemetry     Telemetry
}

// Server is the fiber application plus the state watcher that keeps the
// dashboard and connected sockets current.
type Server struct {
	app       *fiber.App
	registry  *states.Registry
	sync      gocommand.Commander[commands.SyncInput]
	testConn  gocommand.Commander[commands.TestConnectionInput]
	card      boardCard
	board     *queries.BoardQuery
	groups    *queries.UserGroupQuery
	trends    trendSource
	notices   notificationCenter
	renderer  healthboard.Renderer
	title     string
	telemetry Telemetry
	hub       *hub
}

// New builds the server and registers its routes.
func New(opts Options) (*Server, error) {
	if opts.States == nil {
		return nil, errors.New("server: state registry is required")
	}
	if opts.Sync == nil {
		return nil, errors.New("server: sync command is required")
	}
	if opts.Card == nil {
		return nil, errors.New("server: dashboard card is required")
	}
	s := &Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		registry:  opts.States,
		sync:      opts.Sync,
		testConn:  opts.TestConn,
		card:      opts.Card,
		board:     opts.Board,
		groups:    opts.Groups,
		trends:    opts.Trends,
		notices:   opts.Notifications,
		renderer:  opts.Renderer,
		title:     opts.Title,
		telemetry: opts.Telemetry,
		hub:       newHub(),
	}
	if s.telemetry == nil {
		s.telemetry = noopTelemetry{}
	}
	if s.title == "" {
		s.title = healthboard.DefaultTitle
	}
	s.routes()
	return s, nil
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run watches the state table and serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	events, cancel := s.registry.Watch()
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				s.card.OnSnapshotUpdate(ctx, s.registry.Snapshot())
				s.hub.broadcast(event)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	// Render once so the first page load is not empty after a restart.
	s.card.OnSnapshotUpdate(ctx, s.registry.Snapshot())

	if err := s.app.Listen(addr); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) routes() {
	s.app.Post("/api/webhook/:webhook_id", s.handleWebhook)
	s.app.Post("/api/test-connection", s.handleTestConnection)
	s.app.Get("/dashboard", s.handleDashboardPage)
	s.app.Get("/api/dashboard", s.handleBoard)
	s.app.Get("/api/dashboard/:user", s.handleUserGroup)
	s.app.Get("/api/states", s.handleStates)
	s.app.Get("/api/states/:entity_id", s.handleState)
	s.app.Get("/api/trends/:entity_id", s.handleTrend)
	s.app.Get("/api/notifications", s.handleNotifications)
	s.app.Delete("/api/notifications/:id", s.handleDismissNotification)
	s.app.Get("/healthz", s.handleHealthz)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleSocket))
}

func (s *Server) handleWebhook(c *fiber.Ctx) error {
	payload, err := ingest.DecodeSyncPayload(c.Body())
	if err != nil {
		s.telemetry.Record(c.Context(), "server.webhook.rejected", map[string]any{
			"webhook_id": c.Params("webhook_id"),
			"error":      err.Error(),
		})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	input := commands.SyncInput{WebhookID: c.Params("webhook_id"), Payload: payload}
	if err := s.sync.Execute(c.Context(), input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleTestConnection(c *fiber.Ctx) error {
	if s.testConn == nil {
		return fiber.ErrNotImplemented
	}
	var input commands.TestConnectionInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}
	if err := s.testConn.Execute(c.Context(), input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleDashboardPage(c *fiber.Ctx) error {
	if s.renderer == nil {
		return fiber.ErrNotImplemented
	}
	html, err := s.renderer.Render("page", map[string]any{
		"title": s.title,
		"board": s.card.HTML(),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (s *Server) handleBoard(c *fiber.Ctx) error {
	if s.board == nil {
		return fiber.ErrNotImplemented
	}
	board, err := s.board.Query(c.Context(), queries.BoardInput{
		Refresh: c.QueryBool("refresh"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(board)
}

func (s *Server) handleUserGroup(c *fiber.Ctx) error {
	if s.groups == nil {
		return fiber.ErrNotImplemented
	}
	group, err := s.groups.Query(c.Context(), queries.UserGroupInput{Key: c.Params("user")})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(group)
}

func (s *Server) handleStates(c *fiber.Ctx) error {
	snapshot := s.registry.Snapshot()
	out := make([]states.EntityState, 0, len(snapshot))
	for _, state := range snapshot {
		out = append(out, state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return c.JSON(out)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	state, ok := s.registry.Get(c.Params("entity_id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "entity not found"})
	}
	return c.JSON(state)
}

func (s *Server) handleTrend(c *fiber.Ctx) error {
	if s.trends == nil {
		return fiber.ErrNotImplemented
	}
	entity, ok := s.registry.Get(c.Params("entity_id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "entity not found"})
	}
	html, err := s.trends.ChartHTML(entity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (s *Server) handleNotifications(c *fiber.Ctx) error {
	if s.notices == nil {
		return c.JSON([]ingest.Notification{})
	}
	return c.JSON(s.notices.Pending())
}

func (s *Server) handleDismissNotification(c *fiber.Ctx) error {
	if s.notices != nil {
		s.notices.Dismiss(c.Params("id"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"entities": len(s.registry.Snapshot()),
		"sockets":  s.hub.clients(),
	})
}

func (s *Server) handleSocket(conn *websocket.Conn) {
	out := s.hub.add(conn)
	defer s.hub.remove(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case data, ok := <-out:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
