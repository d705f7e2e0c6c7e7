// Package applicationhdl - HTTP handlers for the application domain.
// Candidate-facing endpoints live here; admin endpoints are in
// handler.application.admin.go.
package applicationhdl

import (
	"github.com/gofiber/fiber/v3"

	appdto "github.com/JennyYuanZW/JianshanPortal/internal/api/application/dto"
	"github.com/JennyYuanZW/JianshanPortal/internal/api/application/models"
	services "github.com/JennyYuanZW/JianshanPortal/internal/api/application/service"
	basehdl "github.com/JennyYuanZW/JianshanPortal/internal/api/base/handler"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
)

// ApplicationHandler serves the candidate-facing application routes.
type ApplicationHandler struct {
	Service *services.ApplicationService
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Service: service}
}

func userIDFromContext(c fiber.Ctx) (string, error) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return "", common.ErrTokenMissing
	}
	return userID, nil
}

// HandleGetMyApplication returns the caller's application, creating a
// draft record on first access.
func (h *ApplicationHandler) HandleGetMyApplication(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		app, err := h.Service.GetOrCreate(c.Context(), userID)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleSaveMyForm replaces the caller's draft form data.
func (h *ApplicationHandler) HandleSaveMyForm(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var input appdto.SaveFormInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewValidationError(common.MsgValidationError, err.Error()))
			return nil
		}

		app, err := h.Service.SaveForm(c.Context(), userID, input.FormData)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleSubmit submits the caller's draft application.
func (h *ApplicationHandler) HandleSubmit(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		app, err := h.Service.Submit(c.Context(), userID)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleAcceptOffer enrolls the caller after a released decision.
func (h *ApplicationHandler) HandleAcceptOffer(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		app, err := h.Service.AcceptOffer(c.Context(), userID)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleAdvanceMyStatus steps the caller's application to its next
// lifecycle state. Development tooling for walking the full flow without
// an admin account.
func (h *ApplicationHandler) HandleAdvanceMyStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		app, err := h.Service.AdvanceStatus(c.Context(), userID)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleResetMyApplication reverts the caller's application to draft.
// Development tooling; form data survives.
func (h *ApplicationHandler) HandleResetMyApplication(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID, err := userIDFromContext(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		app, err := h.Service.Reset(c.Context(), userID)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleFormConfig returns the application form layout used to render the
// candidate form.
func (h *ApplicationHandler) HandleFormConfig(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		basehdl.HandleResponse(c, fiber.Map{
			"essays":     models.EssayFields,
			"selections": models.SelectionFields,
			"programPreferences": fiber.Map{
				"rows":    models.ProgramPreferenceRows,
				"options": models.ProgramPreferenceOptions,
			},
			"uploads": models.UploadFields,
		}, nil)
		return nil
	})
}
