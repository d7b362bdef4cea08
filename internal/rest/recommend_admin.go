package rest

import (
	"net/http"
	"strconv"

	"shopRecommender/business/recommend"
	"shopRecommender/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RecommendAdminHandler struct {
	validate *validator.Validate
	cfgRepo  recommend.ConfigRepository
}

func NewRecommendAdminHandler(cfgRepo recommend.ConfigRepository) *RecommendAdminHandler {
	return &RecommendAdminHandler{
		validate: validator.New(),
		cfgRepo:  cfgRepo,
	}
}

// GET /api/v1/admin/recommend/config?variant=0
func (h *RecommendAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()
	variantStr := c.QueryParam("variant")

	if variantStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "variant is required",
		})
	}

	variant, err := strconv.Atoi(variantStr)
	if err != nil || variant < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid variant",
		})
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, variant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": domain.ErrConfigNotFound.Error(),
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/recommend/config
// body: RecommendConfig JSON
func (h *RecommendAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.RecommendConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid config: " + err.Error(),
		})
	}

	switch body.ContentStrategy {
	case "", recommend.ContentWeightedProfile, recommend.ContentPurchaseOverlap:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "unknown content_strategy: " + body.ContentStrategy,
		})
	}
	switch body.TrendingStrategy {
	case "", recommend.TrendingPopularity, recommend.TrendingRecentActivity:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "unknown trending_strategy: " + body.TrendingStrategy,
		})
	}

	if err := h.cfgRepo.UpsertConfig(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
