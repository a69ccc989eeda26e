package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kyler004/inventory-system/internal/apierror"
	"github.com/kyler004/inventory-system/internal/dto"
	"github.com/kyler004/inventory-system/internal/middleware"
	"github.com/kyler004/inventory-system/internal/service"
)

type MovementsHandler struct{ svc service.MovementService }

func NewMovementsHandler(svc service.MovementService) *MovementsHandler {
	return &MovementsHandler{svc: svc}
}

// Apply records one stock movement against a product. The acting user comes
// from the access token, never from the request body.
func (h *MovementsHandler) Apply(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ApplyMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}

	resp, err := h.svc.Apply(c.Request.Context(), productID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByProduct returns the most recent movements for one product,
// newest first. Default limit is 5.
func (h *MovementsHandler) ListByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	resp, err := h.svc.ListByProduct(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *MovementsHandler) List(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
