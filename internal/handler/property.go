package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propertyvision/api/internal/repository"
	"github.com/propertyvision/api/internal/utils"
)

// PropertyHandler owns the /v1/properties endpoints.
type PropertyHandler struct {
	Properties *repository.PropertyRepo
}

func NewPropertyHandler(properties *repository.PropertyRepo) *PropertyHandler {
	return &PropertyHandler{Properties: properties}
}

type propertyReq struct {
	PropertyName  string `json:"propertyName"`
	PropertyType  string `json:"propertyType"`
	OwnershipType string `json:"ownershipType"`
	Description   string `json:"description"`
	City          string `json:"city"`
	AddressLine   string `json:"addressLine"`
}

func (req *propertyReq) validate() string {
	if strings.TrimSpace(req.PropertyName) == "" {
		return "propertyName is required"
	}
	if strings.TrimSpace(req.PropertyType) == "" {
		return "propertyType is required"
	}
	if strings.TrimSpace(req.City) == "" {
		return "city is required"
	}
	return ""
}

// Create registers a property. The property code is generated server side
// and returned with the record.
func (h *PropertyHandler) Create(c echo.Context) error {
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &repository.Property{
		PropertyCode:  utils.NewPropertyCode(),
		PropertyName:  req.PropertyName,
		PropertyType:  req.PropertyType,
		OwnershipType: req.OwnershipType,
		Description:   req.Description,
		City:          req.City,
		AddressLine:   req.AddressLine,
	}
	if err := h.Properties.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPropertyCodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "create property failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": p})
}

// List returns live properties, optionally filtered by ?propertyType= and
// ?city=.
func (h *PropertyHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	props, err := h.Properties.List(ctx, c.QueryParam("propertyType"), c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": props})
}

// Get returns one live property.
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": p})
}

// Update overwrites a property's mutable fields. The property code never
// changes after creation.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &repository.Property{
		ID:            id,
		PropertyName:  req.PropertyName,
		PropertyType:  req.PropertyType,
		OwnershipType: req.OwnershipType,
		Description:   req.Description,
		City:          req.City,
		AddressLine:   req.AddressLine,
	}
	if err := h.Properties.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}
	updated, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// Delete soft-deletes a property. Floors and units under it keep their own
// flags; listings filter per table.
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Properties.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "property deleted successfully"})
}
