package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shopRecommender/domain"
	"shopRecommender/internal/middleware"
	"shopRecommender/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
		timeout  time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID uint, limit int) ([]uint64, error)
		Explain(ctx context.Context, userID uint, limit int) ([]domain.ScoredCandidate, error)
		Trending(ctx context.Context, limit int) ([]domain.ScoredCandidate, error)
	}

	RecommendQuery struct {
		Limit int `query:"limit" validate:"gte=0"`
	}

	// RecommendRequest is the service-to-service body. A missing user_id
	// means an anonymous visitor.
	RecommendRequest struct {
		UserID uint `json:"user_id"`
		Limit  int  `json:"limit" validate:"gte=0"`
	}

	RecommendationResponse struct {
		UserID     uint     `json:"user_id,omitempty"`
		ProductIDs []uint64 `json:"product_ids"`
		Total      int      `json:"total"`
	}

	ExplainResponse struct {
		UserID          uint                     `json:"user_id,omitempty"`
		ProductIDs      []uint64                 `json:"product_ids"`
		Recommendations []domain.ScoredCandidate `json:"recommendations"`
		Total           int                      `json:"total"`
	}
)

func NewRecommendationHandler(svc RecommendationService, timeout time.Duration) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
		timeout:  timeout,
	}
}

func (h *RecommendationHandler) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

func (h *RecommendationHandler) bindQuery(c echo.Context) (RecommendQuery, error) {
	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return q, err
	}
	if err := h.validate.Struct(&q); err != nil {
		return q, err
	}
	return q, nil
}

// respondError maps service errors. Only a bad limit reaches the caller as a 4xx.
func (h *RecommendationHandler) respondError(c echo.Context, endpoint string, start time.Time, err error) error {
	code := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidLimit) {
		code = http.StatusBadRequest
	}
	metrics.ObserveRequest(endpoint, code, start)
	return c.JSON(code, ResponseError{Message: err.Error()})
}

func (h *RecommendationHandler) badRequest(c echo.Context, endpoint string, start time.Time, err error) error {
	metrics.ObserveRequest(endpoint, http.StatusBadRequest, start)
	return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

// GET /api/v1/recommendations?limit=12
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	const endpoint = "recommend"
	start := time.Now()

	q, err := h.bindQuery(c)
	if err != nil {
		return h.badRequest(c, endpoint, start, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	userID := middleware.UserIDFromContext(c)
	ids, err := h.service.Recommend(ctx, userID, q.Limit)
	if err != nil {
		return h.respondError(c, endpoint, start, err)
	}

	metrics.ObserveRequest(endpoint, http.StatusOK, start)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(RecommendationResponse{
		UserID:     userID,
		ProductIDs: ids,
		Total:      len(ids),
	}))
}

// GET /api/v1/recommendations/explain?limit=12
func (h *RecommendationHandler) Explain(c echo.Context) error {
	const endpoint = "explain"
	start := time.Now()

	q, err := h.bindQuery(c)
	if err != nil {
		return h.badRequest(c, endpoint, start, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	userID := middleware.UserIDFromContext(c)
	recs, err := h.service.Explain(ctx, userID, q.Limit)
	if err != nil {
		return h.respondError(c, endpoint, start, err)
	}

	metrics.ObserveRequest(endpoint, http.StatusOK, start)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(ExplainResponse{
		UserID:          userID,
		ProductIDs:      domain.ProductIDs(recs),
		Recommendations: recs,
		Total:           len(recs),
	}))
}

// GET /api/v1/recommendations/trending?limit=10
func (h *RecommendationHandler) Trending(c echo.Context) error {
	const endpoint = "trending"
	start := time.Now()

	q, err := h.bindQuery(c)
	if err != nil {
		return h.badRequest(c, endpoint, start, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	recs, err := h.service.Trending(ctx, q.Limit)
	if err != nil {
		return h.respondError(c, endpoint, start, err)
	}

	metrics.ObserveRequest(endpoint, http.StatusOK, start)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(ExplainResponse{
		ProductIDs:      domain.ProductIDs(recs),
		Recommendations: recs,
		Total:           len(recs),
	}))
}

// POST /internal/recommendations
// body: {"user_id": 7, "limit": 12}
// Answers with a bare {"product_ids": [...]} body for the storefront backend.
func (h *RecommendationHandler) RecommendInternal(c echo.Context) error {
	const endpoint = "recommend_internal"
	start := time.Now()

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, endpoint, start, err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.badRequest(c, endpoint, start, err)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	ids, err := h.service.Recommend(ctx, req.UserID, req.Limit)
	if err != nil {
		return h.respondError(c, endpoint, start, err)
	}

	metrics.ObserveRequest(endpoint, http.StatusOK, start)
	return c.JSON(http.StatusOK, RecommendationResponse{
		UserID:     req.UserID,
		ProductIDs: ids,
		Total:      len(ids),
	})
}
