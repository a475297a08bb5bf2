package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"refrescobot/business/admin"
	"refrescobot/business/scoring"
	"refrescobot/domain"
	"refrescobot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	AdminAuthService interface {
		Login(ctx context.Context, username, password, ipAddress, userAgent string) (admin.Session, error)
		Logout(ctx context.Context, token string) error
	}

	ModelService interface {
		ModelStatus(ctx context.Context) (domain.ModelStatus, error)
		Retrain(ctx context.Context) (domain.ModelStatus, error)
		MaybeRetrain(ctx context.Context) (bool, error)
		ClearSamples(ctx context.Context) (int64, error)
		ProcessCatalog(ctx context.Context) (int, error)
		PredictCluster(ctx context.Context, beverageID uint64) (domain.ClusterAssignment, error)
		EngineConfig(ctx context.Context) (scoring.Config, error)
		UpdateEngineConfig(ctx context.Context, overrides map[string]float64) (scoring.Config, error)
	}

	AdminHandler struct {
		auth     AdminAuthService
		model    ModelService
		validate *validator.Validate
		timeout  time.Duration
	}

	AdminLoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	EngineConfigRequest struct {
		Overrides map[string]float64 `json:"overrides" validate:"required,min=1"`
	}

	RetrainResponse struct {
		Retrained bool               `json:"retrained"`
		Status    domain.ModelStatus `json:"status"`
	}
)

func NewAdminHandler(auth AdminAuthService, model ModelService) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		model:    model,
		validate: validator.New(),
		// a forced retrain runs inside the request
		timeout: 60 * time.Second,
	}
}

// POST /api/v1/admin/login
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sess, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sess))
}

// POST /api/v1/admin/logout
func (h *AdminHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	if err := h.auth.Logout(c.Request().Context(), token); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK("logged out"))
}

// GET /api/v1/admin/model
func (h *AdminHandler) ModelStatus(c echo.Context) error {
	status, err := h.model.ModelStatus(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}

// POST /api/v1/admin/model/retrain?force=true
func (h *AdminHandler) Retrain(c echo.Context) error {
	force := false
	if s := c.QueryParam("force"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid force"})
		}
		force = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	retrained := true
	if force {
		if _, err := h.model.Retrain(ctx); err != nil {
			return writeError(c, err)
		}
	} else {
		ran, err := h.model.MaybeRetrain(ctx)
		if err != nil {
			return writeError(c, err)
		}
		retrained = ran
	}

	status, err := h.model.ModelStatus(ctx)
	if err != nil {
		return writeError(c, err)
	}
	logger.Info("admin_retrain", "user", c.Get("user_id"), "force", force, "retrained", retrained)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(RetrainResponse{Retrained: retrained, Status: status}))
}

// DELETE /api/v1/admin/training-samples
func (h *AdminHandler) ClearSamples(c echo.Context) error {
	n, err := h.model.ClearSamples(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{"deleted": n}))
}

// POST /api/v1/admin/catalog/process
func (h *AdminHandler) ProcessCatalog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	n, err := h.model.ProcessCatalog(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{"processed": n}))
}

// GET /api/v1/admin/beverages/:id/cluster
func (h *AdminHandler) BeverageCluster(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid beverage id"})
	}
	a, err := h.model.PredictCluster(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(a))
}

// GET /api/v1/admin/engine-config
func (h *AdminHandler) GetEngineConfig(c echo.Context) error {
	cfg, err := h.model.EngineConfig(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(cfg))
}

// PUT /api/v1/admin/engine-config
// body: { "overrides": { "base_probability": 55 } }
func (h *AdminHandler) UpdateEngineConfig(c echo.Context) error {
	var req EngineConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid body: " + err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	cfg, err := h.model.UpdateEngineConfig(c.Request().Context(), req.Overrides)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(cfg))
}
