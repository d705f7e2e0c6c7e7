package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applicationrouter "github.com/JennyYuanZW/JianshanPortal/internal/api/application/router"
	services "github.com/JennyYuanZW/JianshanPortal/internal/api/application/service"
	authsvc "github.com/JennyYuanZW/JianshanPortal/internal/api/auth/service"
	basehdl "github.com/JennyYuanZW/JianshanPortal/internal/api/base/handler"
	apirouter "github.com/JennyYuanZW/JianshanPortal/internal/api/router"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
	"github.com/JennyYuanZW/JianshanPortal/internal/notifier"
)

// InitFiberApp builds the Fiber application with its middleware stack and
// wires the domain services onto it.
func InitFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Jianshan Portal API",
		ServerHeader:  "Jianshan Portal API",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		BodyLimit:       10 * 1024 * 1024,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			errorCode := common.ErrCodeInternalServer.Code

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
				switch code {
				case fiber.StatusBadRequest:
					errorCode = common.ErrCodeValidationInput.Code
				case fiber.StatusUnauthorized:
					errorCode = common.ErrCodeAuthToken.Code
				case fiber.StatusForbidden:
					errorCode = common.ErrCodeAuthRole.Code
				case fiber.StatusNotFound, fiber.StatusConflict:
					errorCode = common.ErrCodeDatabaseQuery.Code
				}
			}

			logger.WithRequest(c).WithFields(map[string]interface{}{
				"code":      code,
				"errorCode": errorCode,
				"message":   message,
			}).Error("Request error")

			return c.Status(code).JSON(fiber.Map{
				"code":    errorCode,
				"message": message,
				"status":  "error",
			})
		},
	})

	// Request ID so every log line can be traced back to a request.
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	// CORS must run before anything that can short-circuit preflights.
	corsOrigins := global.ServerConfig.CORS_Origins
	var allowOrigins []string
	if corsOrigins == "*" {
		allowOrigins = []string{"*"}
	} else {
		allowOrigins = strings.Split(corsOrigins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: global.ServerConfig.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// Security headers.
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	if global.ServerConfig.RateLimit_Enabled && global.ServerConfig.RateLimit_Max > 0 {
		rateLimitMax := global.ServerConfig.RateLimit_Max
		rateLimitWindow := time.Duration(global.ServerConfig.RateLimit_Window) * time.Second
		app.Use(limiter.New(limiter.Config{
			Max:        rateLimitMax,
			Expiration: rateLimitWindow,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Too many requests, please try again later",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				// Health checks and preflights are never rate limited.
				return c.Path() == "/api/v1/system/health" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", rateLimitMax, global.ServerConfig.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": e,
			}).Error("Panic recovered")
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/system/health"
		},
	}))

	if err := apirouter.SetupRoutes(app,
		registerSystemRoutes(),
		applicationrouter.Register(buildApplicationService(), buildAuthorizationPolicy()),
	); err != nil {
		logrus.Fatalf("Failed to set up routes: %v", err)
	}

	return app
}

// buildApplicationService assembles the application service with its
// MongoDB repository and the optional email notifier.
func buildApplicationService() *services.ApplicationService {
	repo, err := services.NewMongoApplicationRepository()
	if err != nil {
		logrus.Fatalf("Failed to create application repository: %v", err)
	}

	// A nil *EmailNotifier must stay a nil interface, otherwise the
	// service would dereference it.
	var n services.Notifier
	if emailNotifier := notifier.NewEmailNotifier(global.ServerConfig); emailNotifier != nil {
		n = emailNotifier
	}
	if n == nil {
		logger.GetAppLogger().Warn("SMTP not configured, decision release emails disabled")
	}

	return services.NewApplicationService(repo, n)
}

func buildAuthorizationPolicy() authsvc.AuthorizationPolicy {
	policy := authsvc.NewStaticAllowList(global.ServerConfig.AdminEmails)
	if global.ServerConfig.AdminEmails == "" {
		logger.GetAppLogger().Warn("ADMIN_EMAILS is empty, no account can reach the admin surface")
	}
	return policy
}

func registerSystemRoutes() apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		systemHandler := basehdl.NewSystemHandler()
		apirouter.RegisterRouteWithMiddleware(v1, "/system", "GET", "/health", nil, systemHandler.HandleHealth)
		return nil
	}
}
