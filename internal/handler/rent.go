package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/propertyvision/api/internal/lifecycle"
	"github.com/propertyvision/api/internal/queue"
	"github.com/propertyvision/api/internal/receipt"
	"github.com/propertyvision/api/internal/repository"
	queue_publisher "github.com/propertyvision/api/internal/service"
)

// RentHandler owns the rent ledger endpoints: per-tenant rent rows, the
// joined payments listing and the PDF receipt download.
type RentHandler struct {
	Engine     *lifecycle.Engine
	Rents      *repository.RentRepo
	Tenants    *repository.TenantRepo
	Units      *repository.UnitRepo
	Properties *repository.PropertyRepo
	Log        *zap.Logger
}

func NewRentHandler(engine *lifecycle.Engine, rents *repository.RentRepo, tenants *repository.TenantRepo, units *repository.UnitRepo, properties *repository.PropertyRepo, log *zap.Logger) *RentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RentHandler{Engine: engine, Rents: rents, Tenants: tenants, Units: units, Properties: properties, Log: log}
}

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func validPaymentStatus(s string) bool {
	switch s {
	case repository.RentPending, repository.RentPaid, repository.RentLate:
		return true
	}
	return false
}

type rentCreateReq struct {
	Month             string  `json:"month"`
	RentAmount        float64 `json:"rentAmount"`
	MaintenanceAmount float64 `json:"maintenanceAmount"`
	PaymentStatus     string  `json:"paymentStatus"`
	PaidOn            string  `json:"paidOn"` // YYYY-MM-DD
}

// Create records one billing month for an active tenant. A tenant gets at
// most one row per month; recording the same month again returns 409 and
// leaves the first row untouched.
func (h *RentHandler) Create(c echo.Context) error {
	tenantID, err := pathID(c, "tenantId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req rentCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if !monthRe.MatchString(req.Month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "month must be YYYY-MM"})
	}
	if req.RentAmount < 0 || req.MaintenanceAmount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amounts must not be negative"})
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = repository.RentPending
	}
	if !validPaymentStatus(req.PaymentStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "paymentStatus must be Pending, Paid or Late"})
	}

	var paidOn *time.Time
	if req.PaidOn != "" {
		ts, err := time.Parse("2006-01-02", req.PaidOn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "paidOn must be YYYY-MM-DD"})
		}
		paidOn = &ts
	}
	if req.PaymentStatus == repository.RentPaid && paidOn == nil {
		now := time.Now().UTC()
		paidOn = &now
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rr, err := h.Engine.AddRent(ctx, tenantID, req.Month, req.RentAmount, req.MaintenanceAmount, req.PaymentStatus, paidOn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTenantNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		case errors.Is(err, lifecycle.ErrTenantVacated):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "tenant has vacated"})
		case errors.Is(err, repository.ErrRentExists):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "record rent failed"})
	}

	if rr.PaymentStatus == repository.RentPaid {
		go h.publishPaid(rr)
	}
	// Unlike tenant onboarding, adding a ledger row answers 200.
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rr})
}

// ListByTenant returns a tenant's rent history, most recent month first.
func (h *RentHandler) ListByTenant(c echo.Context) error {
	tenantID, err := pathID(c, "tenantId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rents, err := h.Rents.ListByTenant(ctx, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rents})
}

type rentUpdateReq struct {
	RentAmount        *float64 `json:"rentAmount"`
	MaintenanceAmount *float64 `json:"maintenanceAmount"`
	PaymentStatus     *string  `json:"paymentStatus"`
	PaidOn            *string  `json:"paidOn"` // YYYY-MM-DD, empty string clears
}

// Update edits the amounts and payment status of an existing rent row.
// Absent fields keep their value; the total is recomputed from whatever rent
// and maintenance end up being. Month and tenant are immutable.
func (h *RentHandler) Update(c echo.Context) error {
	rentID, err := pathID(c, "rentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	var req rentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rr, err := h.Rents.GetByID(ctx, rentID)
	if err != nil {
		if errors.Is(err, repository.ErrRentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "rent record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	wasPaid := rr.PaymentStatus == repository.RentPaid

	if req.RentAmount != nil {
		if *req.RentAmount < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amounts must not be negative"})
		}
		rr.RentAmount = *req.RentAmount
	}
	if req.MaintenanceAmount != nil {
		if *req.MaintenanceAmount < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amounts must not be negative"})
		}
		rr.MaintenanceAmount = *req.MaintenanceAmount
	}
	if req.PaymentStatus != nil {
		if !validPaymentStatus(*req.PaymentStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "paymentStatus must be Pending, Paid or Late"})
		}
		rr.PaymentStatus = *req.PaymentStatus
	}
	if req.PaidOn != nil {
		if *req.PaidOn == "" {
			rr.PaidOn = nil
		} else {
			ts, err := time.Parse("2006-01-02", *req.PaidOn)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "paidOn must be YYYY-MM-DD"})
			}
			rr.PaidOn = &ts
		}
	}
	if rr.PaymentStatus == repository.RentPaid && rr.PaidOn == nil {
		now := time.Now().UTC()
		rr.PaidOn = &now
	}
	rr.TotalAmount = rr.RentAmount + rr.MaintenanceAmount

	if err := h.Rents.Update(ctx, rr); err != nil {
		if errors.Is(err, repository.ErrRentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "rent record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "update failed"})
	}

	if !wasPaid && rr.PaymentStatus == repository.RentPaid {
		go h.publishPaid(rr)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rr})
}

// Delete removes a rent row permanently.
func (h *RentHandler) Delete(c echo.Context) error {
	rentID, err := pathID(c, "rentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Rents.Delete(ctx, rentID); err != nil {
		if errors.Is(err, repository.ErrRentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "rent record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "rent record deleted successfully"})
}

// Receipt streams the PDF receipt for a Paid rent row. Unpaid rows are a
// 400; the tenant lookup ignores soft-delete so a vacated tenant's paid
// history still downloads.
func (h *RentHandler) Receipt(c echo.Context) error {
	rentID, err := pathID(c, "rentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rr, err := h.Rents.GetByID(ctx, rentID)
	if err != nil {
		if errors.Is(err, repository.ErrRentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "rent record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	if rr.PaymentStatus != repository.RentPaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "receipt is only available for paid rent"})
	}

	t, err := h.Tenants.GetByIDAny(ctx, rr.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	// A deleted unit renders as N/A rather than failing the download.
	u, err := h.Units.GetByID(ctx, rr.UnitID)
	if err != nil && !errors.Is(err, repository.ErrUnitNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	pdfBytes, err := receipt.Render(rr, t, u)
	if err != nil {
		h.Log.Error("receipt render failed", zap.Uint64("rent_id", rr.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "render receipt failed"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+receipt.Filename(rr, t)+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// Payments returns the joined payments listing across all tenants.
func (h *RentHandler) Payments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	payments, err := h.Rents.ListPayments(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": payments})
}

// publishPaid resolves display names and emits a RentPaidEvent. It runs off
// the request path; publish failures are logged and never affect the API
// response.
func (h *RentHandler) publishPaid(rr *repository.Rent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.RentPaidEvent{
		RentID:      rr.ID,
		TenantID:    rr.TenantID,
		Month:       rr.Month,
		TotalAmount: rr.TotalAmount,
	}
	if rr.PaidOn != nil {
		ev.PaidOn = rr.PaidOn.Format("2006-01-02")
	}
	if t, err := h.Tenants.GetByIDAny(ctx, rr.TenantID); err == nil {
		ev.TenantName = t.FullName
	}
	if u, err := h.Units.GetByID(ctx, rr.UnitID); err == nil {
		ev.UnitNumber = u.UnitNumber
		if p, err := h.Properties.GetByID(ctx, u.PropertyID); err == nil {
			ev.PropertyName = p.PropertyName
		}
	}

	if err := queue_publisher.PublishRentPaid(ctx, ev); err != nil {
		h.Log.Warn("rent paid event publish failed", zap.Uint64("rent_id", rr.ID), zap.Error(err))
	}
}
