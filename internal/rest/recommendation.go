package rest

import (
	"context"
	"net/http"
	"time"

	"refrescobot/business/policy"
	"refrescobot/business/recommend"
	"refrescobot/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		svc      RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, answers []domain.QuizAnswer) (domain.Recommendation, error)
		MoreOptions(ctx context.Context, sessionID string) (domain.MoreOptions, error)
		ResolvePolicy(ctx context.Context, answers []domain.QuizAnswer) (policy.Decision, error)
		RateBeverage(ctx context.Context, in recommend.RatingInput) (domain.RatingUpdate, error)
	}

	AnswersRequest struct {
		Answers []domain.QuizAnswer `json:"answers" validate:"required,min=1,dive"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		svc:      svc,
		timeout:  10 * time.Second,
	}
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var req AnswersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.svc.Recommend(ctx, req.Answers)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}

// GET /api/v1/recommendations/:session_id/more
func (h *RecommendationHandler) MoreOptions(c echo.Context) error {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	more, err := h.svc.MoreOptions(ctx, sessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(more))
}

// POST /api/v1/policy
func (h *RecommendationHandler) ResolvePolicy(c echo.Context) error {
	var req AnswersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	decision, err := h.svc.ResolvePolicy(c.Request().Context(), req.Answers)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decision))
}

// POST /api/v1/ratings
func (h *RecommendationHandler) Rate(c echo.Context) error {
	var req recommend.RatingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	update, err := h.svc.RateBeverage(ctx, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(update))
}
