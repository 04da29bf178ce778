package catalog

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
	g.GET("/diagnoses", h.List)
	g.POST("/diagnoses", h.Create)
	g.PUT("/diagnoses/:id", h.Update)
	g.DELETE("/diagnoses/:id", h.Delete)
}

type diagnosisRequest struct {
	Diagnosis string `json:"diagnosis" form:"diagnosis"`
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c, pagination.PatientsPageSize)
	items, total, err := h.svc.List(c.Request().Context(), pg.PageSize, pg.Offset())
	if err != nil {
		return errs.ToHTTP(err)
	}
	if items == nil {
		items = []*Diagnosis{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Create(c echo.Context) error {
	var req diagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Add(c.Request().Context(), req.Diagnosis); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req diagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Rename(c.Request().Context(), id, req.Diagnosis); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return errs.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
