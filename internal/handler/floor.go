package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/repository"
)

// FloorHandler owns the /v1/floors endpoints.
type FloorHandler struct {
	Floors     *repository.FloorRepo
	Properties *repository.PropertyRepo
}

func NewFloorHandler(floors *repository.FloorRepo, properties *repository.PropertyRepo) *FloorHandler {
	return &FloorHandler{Floors: floors, Properties: properties}
}

type floorReq struct {
	PropertyID  uint64 `json:"propertyId"`
	FloorNumber int    `json:"floorNumber"`
	FloorName   string `json:"floorName"`
	FloorType   string `json:"floorType"`
}

// Create adds a floor under an existing live property.
func (h *FloorHandler) Create(c echo.Context) error {
	var req floorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.PropertyID == 0 || strings.TrimSpace(req.FloorName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "propertyId and floorName are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Reject floors on missing or deleted properties up front; the schema
	// alone would allow the orphan.
	if _, err := h.Properties.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	f := &repository.Floor{
		PropertyID:  req.PropertyID,
		FloorNumber: req.FloorNumber,
		FloorName:   req.FloorName,
		FloorType:   req.FloorType,
	}
	if err := h.Floors.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create floor failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": f})
}

// List returns all live floors.
func (h *FloorHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	floors, err := h.Floors.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": floors})
}

// Get returns one live floor.
func (h *FloorHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Floors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": f})
}

// ListByProperty returns a property's live floors ordered bottom-up.
func (h *FloorHandler) ListByProperty(c echo.Context) error {
	propertyID, err := pathID(c, "propertyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	floors, err := h.Floors.ListByProperty(ctx, propertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": floors})
}

type floorUpdateReq struct {
	FloorNumber *int   `json:"floorNumber"`
	FloorName   string `json:"floorName"`
	FloorType   string `json:"floorType"`
	IsActive    *bool  `json:"isActive"`
}

// Update edits a floor's mutable fields. Absent fields keep their stored
// value; floorNumber is a pointer because 0 is the ground floor, not "not
// provided".
func (h *FloorHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req floorUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f, err := h.Floors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	if req.FloorNumber != nil {
		f.FloorNumber = *req.FloorNumber
	}
	if req.FloorName != "" {
		f.FloorName = req.FloorName
	}
	if req.FloorType != "" {
		f.FloorType = req.FloorType
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if err := h.Floors.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": f})
}

// Delete soft-deletes a floor.
func (h *FloorHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Floors.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFloorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "floor deleted successfully"})
}
