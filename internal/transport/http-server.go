package transport

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

var Module = fx.Provide(NewHTTPServer)

type HTTPServer struct {
	app       *fiber.App
	auth      *service.Auth
	users     *service.Users
	bookmarks *service.Bookmarks
	validator *Validator
	logger    *zap.SugaredLogger
}

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, auth *service.Auth, users *service.Users,
	bookmarks *service.Bookmarks, logger *zap.SugaredLogger) *HTTPServer {
	instance := New(auth, users, bookmarks, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listen := net.JoinHostPort(cfg.Host, cfg.Port)
			go func() {
				if err := instance.app.Listen(listen); err != nil {
					logger.Fatalw("shutting down the server", "error", err)
				}
			}()
			logger.Infow("HTTP server started", "addr", listen)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return instance.app.ShutdownWithContext(ctx)
		},
	})

	return instance
}

// New builds the server and its routes without binding a port.
func New(auth *service.Auth, users *service.Users, bookmarks *service.Bookmarks, logger *zap.SugaredLogger) *HTTPServer {
	l := logger.Named("http")

	instance := &HTTPServer{
		auth:      auth,
		users:     users,
		bookmarks: bookmarks,
		validator: NewValidator(),
		logger:    l,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(l),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(l))
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	authG := app.Group("/auth")
	authG.Post("/signup", instance.Signup)
	authG.Post("/signin", instance.Signin)
	authG.Post("/refresh", instance.Refresh)

	usersG := app.Group("/users", instance.AuthMiddleware)
	usersG.Get("/me", instance.GetMe)
	usersG.Patch("", instance.EditMe)
	usersG.Patch("/me/password", instance.UpdatePassword)

	bookmarkG := app.Group("/bookmarks", instance.AuthMiddleware)
	bookmarkG.Get("", instance.BookmarkList)
	bookmarkG.Get("/:id", instance.BookmarkGet)
	bookmarkG.Post("", instance.BookmarkCreate)
	bookmarkG.Patch("/:id", instance.BookmarkUpdate)
	bookmarkG.Delete("/:id", instance.BookmarkDelete)

	instance.app = app
	return instance
}

func (s *HTTPServer) App() *fiber.App {
	return s.app
}
