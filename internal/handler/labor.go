package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/repository"
)

// LaborHandler owns the /v1/labors endpoints.
type LaborHandler struct {
	Labors *repository.LaborRepo
}

func NewLaborHandler(labors *repository.LaborRepo) *LaborHandler {
	return &LaborHandler{Labors: labors}
}

type laborReq struct {
	FullName  string  `json:"fullName"`
	Phone     string  `json:"phone"`
	Skill     string  `json:"skill"`
	DailyWage float64 `json:"dailyWage"`
}

// Create registers a maintenance worker.
func (h *LaborHandler) Create(c echo.Context) error {
	var req laborReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "fullName and phone are required"})
	}
	if req.DailyWage < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "dailyWage must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l := &repository.Labor{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Skill:     req.Skill,
		DailyWage: req.DailyWage,
	}
	if err := h.Labors.Create(ctx, l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create labor failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": l})
}

// List returns all active labors.
func (h *LaborHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	labors, err := h.Labors.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": labors})
}

// Get returns one active labor.
func (h *LaborHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Labors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLaborNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "labor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": l})
}

type laborUpdateReq struct {
	FullName  string   `json:"fullName"`
	Phone     string   `json:"phone"`
	Skill     string   `json:"skill"`
	DailyWage *float64 `json:"dailyWage"`
}

// Update edits an active labor's fields. Absent fields keep their stored
// value.
func (h *LaborHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req laborUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.DailyWage != nil && *req.DailyWage < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "dailyWage must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	l, err := h.Labors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLaborNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "labor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	if req.FullName != "" {
		l.FullName = req.FullName
	}
	if req.Phone != "" {
		l.Phone = req.Phone
	}
	if req.Skill != "" {
		l.Skill = req.Skill
	}
	if req.DailyWage != nil {
		l.DailyWage = *req.DailyWage
	}

	if err := h.Labors.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrLaborNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "labor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": l})
}

// Delete deactivates a labor.
func (h *LaborHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Labors.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLaborNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "labor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "labor deleted successfully"})
}
