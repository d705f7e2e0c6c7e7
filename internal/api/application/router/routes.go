// Package router registers the application domain routes: candidate
// self-service and the admin review surface.
package router

import (
	"github.com/gofiber/fiber/v3"

	applicationhdl "github.com/JennyYuanZW/JianshanPortal/internal/api/application/handler"
	services "github.com/JennyYuanZW/JianshanPortal/internal/api/application/service"
	authsvc "github.com/JennyYuanZW/JianshanPortal/internal/api/auth/service"
	"github.com/JennyYuanZW/JianshanPortal/internal/api/middleware"
	apirouter "github.com/JennyYuanZW/JianshanPortal/internal/api/router"
)

// Register wires all application routes onto v1.
func Register(service *services.ApplicationService, policy authsvc.AuthorizationPolicy) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		handler := applicationhdl.NewApplicationHandler(service)
		adminHandler := applicationhdl.NewAdminApplicationHandler(service)

		authMiddleware := middleware.AuthRequired()
		adminMiddleware := middleware.AdminRequired(policy)
		candidateMW := []fiber.Handler{authMiddleware}
		adminMW := []fiber.Handler{authMiddleware, adminMiddleware}

		// Candidate self-service.
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "GET", "/me", candidateMW, handler.HandleGetMyApplication)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "PUT", "/me/form", candidateMW, handler.HandleSaveMyForm)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "POST", "/me/submit", candidateMW, handler.HandleSubmit)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "POST", "/me/accept-offer", candidateMW, handler.HandleAcceptOffer)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "POST", "/me/advance", candidateMW, handler.HandleAdvanceMyStatus)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "POST", "/me/reset", candidateMW, handler.HandleResetMyApplication)
		apirouter.RegisterRouteWithMiddleware(v1, "/applications", "GET", "/form-config", candidateMW, handler.HandleFormConfig)

		// Admin roster.
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "GET", "/", adminMW, adminHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "GET", "/export", adminMW, adminHandler.HandleExportCSV)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "GET", "/:userId", adminMW, adminHandler.HandleGetApplication)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "GET", "/:userId/summary", adminMW, adminHandler.HandleReviewSummary)

		// Admin review actions.
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "POST", "/:userId/reviews", adminMW, adminHandler.HandleRecordReview)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "PUT", "/:userId/decision", adminMW, adminHandler.HandleSetDecision)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "PUT", "/:userId/allocation", adminMW, adminHandler.HandleSetAllocation)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "POST", "/:userId/notes", adminMW, adminHandler.HandleAddNote)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "POST", "/:userId/release", adminMW, adminHandler.HandleRelease)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "POST", "/:userId/advance", adminMW, adminHandler.HandleAdvanceStatus)
		apirouter.RegisterRouteWithMiddleware(v1, "/admin/applications", "POST", "/:userId/reset", adminMW, adminHandler.HandleReset)

		return nil
	}
}
