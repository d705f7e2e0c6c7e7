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

// AdminApplicationHandler serves the admin roster and review routes.
type AdminApplicationHandler struct {
	Service *services.ApplicationService
}

// NewAdminApplicationHandler creates an AdminApplicationHandler.
func NewAdminApplicationHandler(service *services.ApplicationService) *AdminApplicationHandler {
	return &AdminApplicationHandler{Service: service}
}

func adminIdentity(c fiber.Ctx) string {
	email, _ := c.Locals("user_email").(string)
	return email
}

func (h *AdminApplicationHandler) filteredList(c fiber.Ctx) ([]models.Application, services.FilterState, error) {
	var query appdto.ListQuery
	if err := c.Bind().Query(&query); err != nil {
		return nil, services.FilterState{}, common.ErrInvalidFormat
	}

	apps, err := h.Service.ListAll(c.Context(), models.ListOptions{
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, services.FilterState{}, err
	}

	filter := services.FilterState{
		Search:       query.Search,
		Subject:      query.Subject,
		Availability: query.Availability,
		Allocation:   query.Allocation,
		Status:       query.Status,
	}
	return filter.Apply(apps), filter, nil
}

// HandleList returns the filtered roster, newest first, with the derived
// review summary attached to each row.
func (h *AdminApplicationHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		apps, _, err := h.filteredList(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		items := make([]fiber.Map, 0, len(apps))
		for i := range apps {
			var reviews []models.ReviewEntry
			if apps[i].AdminData != nil {
				reviews = apps[i].AdminData.Reviews
			}
			items = append(items, fiber.Map{
				"application": apps[i],
				"summary":     services.BuildReviewSummary(reviews),
			})
		}

		basehdl.HandleResponse(c, fiber.Map{
			"items": items,
			"total": len(items),
		}, nil)
		return nil
	})
}

// HandleExportCSV streams the filtered roster as a CSV attachment.
func (h *AdminApplicationHandler) HandleExportCSV(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		apps, _, err := h.filteredList(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="candidates_export.csv"`)
		return c.Status(common.StatusOK).SendString(services.ExportCSV(apps))
	})
}

// HandleGetApplication returns one application by userId. Missing records
// are a terminal not-found for admins.
func (h *AdminApplicationHandler) HandleGetApplication(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		app, err := h.Service.Get(c.Context(), c.Params("userId"))
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleReviewSummary returns the derived statistics for one application.
func (h *AdminApplicationHandler) HandleReviewSummary(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		app, err := h.Service.Get(c.Context(), c.Params("userId"))
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		var reviews []models.ReviewEntry
		if app.AdminData != nil {
			reviews = app.AdminData.Reviews
		}
		basehdl.HandleResponse(c, fiber.Map{
			"summary": services.BuildReviewSummary(reviews),
			"reviews": reviews,
		}, nil)
		return nil
	})
}

// HandleRecordReview appends the caller's review of an application.
func (h *AdminApplicationHandler) HandleRecordReview(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input appdto.ReviewInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewValidationError(common.MsgValidationError, err.Error()))
			return nil
		}

		app, err := h.Service.RecordReview(c.Context(), c.Params("userId"), services.ReviewInput{
			Author:     adminIdentity(c),
			Score:      input.Score,
			Decision:   input.Decision,
			Comment:    input.Comment,
			Flagged:    input.Flagged,
			FlagReason: input.FlagReason,
			Stage:      models.Stage(input.Stage),
		})
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleSetDecision marks the internal decision for later release.
func (h *AdminApplicationHandler) HandleSetDecision(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input appdto.DecisionInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewValidationError(common.MsgValidationError, err.Error()))
			return nil
		}

		app, err := h.Service.SetInternalDecision(c.Context(), c.Params("userId"), input.Decision)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleSetAllocation assigns or clears the camp allocation.
func (h *AdminApplicationHandler) HandleSetAllocation(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input appdto.AllocationInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewValidationError(common.MsgValidationError, err.Error()))
			return nil
		}

		app, err := h.Service.SetAllocation(c.Context(), c.Params("userId"), input.Allocation)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleAddNote appends an admin note.
func (h *AdminApplicationHandler) HandleAddNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input appdto.NoteInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewValidationError(common.MsgValidationError, err.Error()))
			return nil
		}

		app, err := h.Service.AddNote(c.Context(), c.Params("userId"), adminIdentity(c), input.Content)
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleRelease publishes the internal decision to the candidate.
func (h *AdminApplicationHandler) HandleRelease(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		app, err := h.Service.Release(c.Context(), c.Params("userId"))
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleAdvanceStatus steps an application to its next lifecycle state.
func (h *AdminApplicationHandler) HandleAdvanceStatus(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		app, err := h.Service.AdvanceStatus(c.Context(), c.Params("userId"))
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}

// HandleReset reverts an application to draft, clearing the submission
// timestamps but preserving the record.
func (h *AdminApplicationHandler) HandleReset(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		app, err := h.Service.Reset(c.Context(), c.Params("userId"))
		basehdl.HandleResponse(c, app, err)
		return nil
	})
}
