package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/api/http/handler"
	"github.com/dtroode/streamhub-server/internal/api/http/middleware"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// Options configures transport concerns that are not services.
type Options struct {
	BodyLimit int
	UploadDir string
	Cookies   handler.CookieScope
}

// Router wires the account and channel services to fiber routes.
type Router struct {
	accountService handler.AccountService
	channelService handler.ChannelService
	verifier       middleware.TokenVerifier
	health         handler.Pinger
	contextManager model.ContextManager
	options        Options
	logger         *logger.Logger
}

func New(
	accountService handler.AccountService,
	channelService handler.ChannelService,
	verifier middleware.TokenVerifier,
	health handler.Pinger,
	contextManager model.ContextManager,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		accountService: accountService,
		channelService: channelService,
		verifier:       verifier,
		health:         health,
		contextManager: contextManager,
		options:        options,
		logger:         logger,
	}
}

// Register builds the fiber app with every route and middleware attached.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.ErrorHandler(r.logger),
		BodyLimit:             r.options.BodyLimit,
		DisableStartupMessage: true,
	})

	logging := middleware.NewLogging(r.logger)
	app.Use(logging.Handle)

	health := handler.NewHealth(r.health, r.logger)
	app.Get("/healthz", health.Check)

	users := app.Group("/api/v1/users")
	r.registerAccountRoutes(users)
	r.registerChannelRoutes(users)

	return app
}

// Auth is attached per route so that public routes in the same group stay public.
func (r *Router) registerAccountRoutes(group fiber.Router) {
	auth := middleware.NewAuthenticate(r.verifier, r.contextManager, r.logger).Handle
	h := handler.NewAccount(r.accountService, r.contextManager, r.options.Cookies, r.options.UploadDir, r.logger)

	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/refresh-token", h.RenewToken)

	group.Post("/logout", auth, h.Logout)
	group.Post("/change-password", auth, h.ChangePassword)
	group.Get("/current-user", auth, h.CurrentUser)
	group.Patch("/update-account", auth, h.UpdateDetails)
	group.Patch("/avatar", auth, h.UpdateAvatar)
	group.Patch("/picture", auth, h.UpdatePicture)
}

func (r *Router) registerChannelRoutes(group fiber.Router) {
	auth := middleware.NewAuthenticate(r.verifier, r.contextManager, r.logger).Handle
	h := handler.NewChannel(r.channelService, r.contextManager, r.logger)

	group.Get("/c/:username", auth, h.ChannelDetail)
	group.Get("/history", auth, h.WatchHistory)
}
