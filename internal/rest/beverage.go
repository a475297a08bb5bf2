package rest

import (
	"context"
	"net/http"
	"strconv"

	"refrescobot/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type BeverageService interface {
	Beverages(ctx context.Context) ([]domain.Beverage, error)
	Similar(ctx context.Context, beverageID uint64, limit int) ([]domain.SimilarBeverage, error)
}

type BeverageHandler struct {
	svc BeverageService
}

func NewBeverageHandler(svc BeverageService) *BeverageHandler {
	return &BeverageHandler{svc: svc}
}

// GET /api/v1/beverages
func (h *BeverageHandler) List(c echo.Context) error {
	bevs, err := h.svc.Beverages(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(bevs))
}

// GET /api/v1/beverages/:id/similar?limit=5
func (h *BeverageHandler) Similar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid beverage id"})
	}

	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 || limit > 50 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be between 1 and 50"})
		}
	}

	similar, err := h.svc.Similar(c.Request().Context(), id, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(similar))
}
