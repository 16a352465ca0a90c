package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/lifecycle"
	"github.com/propertyvision/api/internal/repository"
	"github.com/propertyvision/api/internal/utils"
)

// TenantHandler owns the /v1/tenants endpoints. Creation and deletion are
// lifecycle transitions (onboard and vacate) and go through the engine;
// only contact-field edits talk to the repository directly.
type TenantHandler struct {
	Engine  *lifecycle.Engine
	Tenants *repository.TenantRepo
}

func NewTenantHandler(engine *lifecycle.Engine, tenants *repository.TenantRepo) *TenantHandler {
	return &TenantHandler{Engine: engine, Tenants: tenants}
}

type tenantReq struct {
	TenantCode   string `json:"tenantCode"`
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	IDType       string `json:"idType"`
	IDNumber     string `json:"idNumber"`
	UnitID       uint64 `json:"unitId"`
	LeaseStart   string `json:"leaseStart"` // YYYY-MM-DD
}

// Onboard creates an Active tenant on an Available unit. 404 when the unit
// does not exist, 409 when it is occupied or reserved.
func (h *TenantHandler) Onboard(c echo.Context) error {
	var req tenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.MobileNumber) == "" || req.UnitID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "fullName, mobileNumber and unitId are required"})
	}

	var leaseStart *time.Time
	if req.LeaseStart != "" {
		ts, err := time.Parse("2006-01-02", req.LeaseStart)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "leaseStart must be YYYY-MM-DD"})
		}
		leaseStart = &ts
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// An operator-supplied code wins; otherwise one is generated.
	code := strings.TrimSpace(req.TenantCode)
	if code == "" {
		code = utils.NewTenantCode()
	}

	unitID := req.UnitID
	t := &repository.Tenant{
		TenantCode:   code,
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		IDType:       req.IDType,
		IDNumber:     req.IDNumber,
		UnitID:       &unitID,
		LeaseStart:   leaseStart,
	}
	if err := h.Engine.Onboard(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "unit not found"})
		case errors.Is(err, lifecycle.ErrUnitUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "unit is not available"})
		case errors.Is(err, repository.ErrTenantCodeExists):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "onboard failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": t})
}

// List returns all live (Active) tenants.
func (h *TenantHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tenants, err := h.Tenants.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": tenants})
}

// Get returns one live tenant.
func (h *TenantHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// Update edits contact and identity fields only. Unit and status transitions
// go through Onboard and Vacate.
func (h *TenantHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req tenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	if req.FullName != "" {
		t.FullName = req.FullName
	}
	if req.MobileNumber != "" {
		t.MobileNumber = req.MobileNumber
	}
	if req.Email != "" {
		t.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.IDType != "" {
		t.IDType = req.IDType
	}
	if req.IDNumber != "" {
		t.IDNumber = req.IDNumber
	}

	if err := h.Tenants.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// Vacate ends a tenancy and frees the unit. Repeating the call is harmless;
// the response says which case happened.
func (h *TenantHandler) Vacate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	changed, err := h.Engine.Vacate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "vacate failed"})
	}
	msg := "tenant vacated successfully"
	if !changed {
		msg = "tenant already vacated"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}
