package router

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// NOTE on middleware registration in Fiber v3:
// registering middleware inline on a route, e.g.
//
//	router.Get("/path", middleware, handler)
//
// does NOT invoke the middleware. Routes must be registered through
// RegisterRouteWithMiddleware, which attaches middleware to a group via
// .Use() before adding the route.
// ============================================================================

// Router manages route registration for the API.
type Router struct {
	app *fiber.App
}

// RoutePrefix holds the base prefixes for the API.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default route prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter creates a Router bound to the app.
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware registers a route whose middleware is attached
// with .Use() on a dedicated group. See the note at the top of this file.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterFunc registers a domain's routes on the v1 group.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes wires all domain routes onto the app. Each domain passes its
// Register function; calling them here avoids import cycles between domains.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
