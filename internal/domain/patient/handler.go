package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medcard/medcard/internal/errs"
	"github.com/medcard/medcard/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients", h.List)
	g.POST("/patients", h.Register)
	g.GET("/patients/:id", h.Card)
	g.DELETE("/patients/:id", h.Delete)

	g.POST("/patients/:id/diagnoses", h.Assign)

	// Two equivalent entry points for the same unassign operation: by
	// assignment id alone, or scoped under the owning patient.
	g.DELETE("/assignments/:id", h.Unassign)
	g.DELETE("/patients/:id/diagnoses/:assignment_id", h.UnassignScoped)
}

type registerRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	BirthDate string `json:"birth_date" form:"birth_date"`
}

type assignRequest struct {
	Diagnosis string `json:"diagnosis" form:"diagnosis"`
	Date      string `json:"diagnosis_date" form:"diagnosis_date"`
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c, pagination.PatientsPageSize)
	items, total, err := h.svc.List(c.Request().Context(), pg.PageSize, pg.Offset())
	if err != nil {
		return errs.ToHTTP(err)
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Register(c.Request().Context(), req.FirstName, req.LastName, req.BirthDate); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Card(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c, pagination.HistoryPageSize)
	card, err := h.svc.Card(c.Request().Context(), id, pg.PageSize, pg.Offset())
	if err != nil {
		return errs.ToHTTP(err)
	}
	history := card.History
	if history == nil {
		history = []*HistoryEntry{}
	}
	suggestions := card.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient":     card.Patient,
		"diagnoses":   pagination.NewResponse(history, card.Total, pg),
		"suggestions": suggestions,
	})
}

func (h *Handler) Assign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Assign(c.Request().Context(), id, req.Diagnosis, req.Date); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) Unassign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	patientID, err := h.svc.Unassign(c.Request().Context(), id)
	if err != nil {
		return errs.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"patient_id": patientID})
}

func (h *Handler) UnassignScoped(c echo.Context) error {
	patientID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	assignmentID, err := pathID(c, "assignment_id")
	if err != nil {
		return err
	}
	if err := h.svc.UnassignFrom(c.Request().Context(), patientID, assignmentID); err != nil {
		return errs.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"patient_id": patientID})
}
