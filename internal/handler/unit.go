package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/repository"
)

// UnitHandler owns the /v1/units endpoints.
type UnitHandler struct {
	Units  *repository.UnitRepo
	Floors *repository.FloorRepo
}

func NewUnitHandler(units *repository.UnitRepo, floors *repository.FloorRepo) *UnitHandler {
	return &UnitHandler{Units: units, Floors: floors}
}

type unitReq struct {
	PropertyID        uint64  `json:"propertyId"`
	FloorID           uint64  `json:"floorId"`
	UnitNumber        string  `json:"unitNumber"`
	UnitType          string  `json:"unitType"`
	SquareFeet        float64 `json:"squareFeet"`
	RentAmount        float64 `json:"rentAmount"`
	SecurityDeposit   float64 `json:"securityDeposit"`
	MaintenanceCharge float64 `json:"maintenanceCharge"`
	FurnishingStatus  string  `json:"furnishingStatus"`
}

func validAvailability(s string) bool {
	switch s {
	case repository.UnitAvailable, repository.UnitOccupied, repository.UnitReserved:
		return true
	}
	return false
}

// Create adds a unit to a floor. The floor must be live and belong to the
// given property; new units always start Available regardless of the body.
func (h *UnitHandler) Create(c echo.Context) error {
	var req unitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.PropertyID == 0 || req.FloorID == 0 || strings.TrimSpace(req.UnitNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "propertyId, floorId and unitNumber are required"})
	}
	if req.RentAmount < 0 || req.MaintenanceCharge < 0 || req.SecurityDeposit < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amounts must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Floors.GetByID(ctx, req.FloorID)
	if err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if f.PropertyID != req.PropertyID {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "floor does not belong to this property"})
	}

	u := &repository.Unit{
		PropertyID:        req.PropertyID,
		FloorID:           req.FloorID,
		UnitNumber:        req.UnitNumber,
		UnitType:          req.UnitType,
		SquareFeet:        req.SquareFeet,
		RentAmount:        req.RentAmount,
		SecurityDeposit:   req.SecurityDeposit,
		MaintenanceCharge: req.MaintenanceCharge,
		FurnishingStatus:  req.FurnishingStatus,
	}
	if err := h.Units.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUnitNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create unit failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": u})
}

// Get returns one live unit.
func (h *UnitHandler) Get(c echo.Context) error {
	id, err := pathID(c, "unitId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Units.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u})
}

// ListByProperty returns a property's live units.
func (h *UnitHandler) ListByProperty(c echo.Context) error {
	propertyID, err := pathID(c, "propertyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	units, err := h.Units.ListByProperty(ctx, propertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": units})
}

type unitUpdateReq struct {
	UnitNumber         string   `json:"unitNumber"`
	UnitType           string   `json:"unitType"`
	SquareFeet         *float64 `json:"squareFeet"`
	RentAmount         *float64 `json:"rentAmount"`
	SecurityDeposit    *float64 `json:"securityDeposit"`
	MaintenanceCharge  *float64 `json:"maintenanceCharge"`
	AvailabilityStatus string   `json:"availabilityStatus"`
	FurnishingStatus   string   `json:"furnishingStatus"`
}

// Update edits a unit's descriptive fields. Absent fields keep their stored
// value, so parking a unit with just {"availabilityStatus":"Reserved"} never
// touches its amounts. Onboarding and vacating still change availability
// only through their own guarded writes.
func (h *UnitHandler) Update(c echo.Context) error {
	id, err := pathID(c, "unitId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req unitUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Units.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	if req.UnitNumber != "" {
		u.UnitNumber = req.UnitNumber
	}
	if req.UnitType != "" {
		u.UnitType = req.UnitType
	}
	if req.FurnishingStatus != "" {
		u.FurnishingStatus = req.FurnishingStatus
	}
	for _, amt := range []*float64{req.SquareFeet, req.RentAmount, req.SecurityDeposit, req.MaintenanceCharge} {
		if amt != nil && *amt < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amounts must not be negative"})
		}
	}
	if req.SquareFeet != nil {
		u.SquareFeet = *req.SquareFeet
	}
	if req.RentAmount != nil {
		u.RentAmount = *req.RentAmount
	}
	if req.SecurityDeposit != nil {
		u.SecurityDeposit = *req.SecurityDeposit
	}
	if req.MaintenanceCharge != nil {
		u.MaintenanceCharge = *req.MaintenanceCharge
	}
	if req.AvailabilityStatus != "" {
		if !validAvailability(req.AvailabilityStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "availabilityStatus must be Available, Occupied or Reserved"})
		}
		u.AvailabilityStatus = req.AvailabilityStatus
	}

	if err := h.Units.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnitNumberExists):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
		case errors.Is(err, repository.ErrUnitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "unit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": u})
}

// Delete soft-deletes a unit.
func (h *UnitHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "unitId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Units.SoftDelete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUnitNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "unit not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "unit is occupied, vacate the tenant first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "unit deleted successfully"})
}
