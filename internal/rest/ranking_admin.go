package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gota/business/ranking"
	"gota/domain"
	"gota/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RankingAdminHandler struct {
		weightsService WeightsService
		profile        string
		validator      *validator.Validate
		timeout        time.Duration
	}

	WeightsService interface {
		GetWeights(ctx context.Context, profile string) (domain.RankingWeights, error)
		UpsertWeights(ctx context.Context, stored domain.RankingWeights) (domain.RankingWeights, error)
	}

	UpsertWeightsRequest struct {
		Profile        string  `json:"profile" validate:"required,max=64"`
		RatingWeight   float64 `json:"rating_weight" validate:"gte=0"`
		ReviewWeight   float64 `json:"review_weight" validate:"gte=0"`
		ReviewCap      int     `json:"review_cap" validate:"gte=0"`
		FavoriteWeight float64 `json:"favorite_weight" validate:"gte=0"`
		FavoriteCap    int     `json:"favorite_cap" validate:"gte=0"`
		PhotoWeight    float64 `json:"photo_weight" validate:"gte=0"`
		AmenityWeight  float64 `json:"amenity_weight" validate:"gte=0"`
		RecencyCap     float64 `json:"recency_cap" validate:"gte=0"`
		FeaturedFactor float64 `json:"featured_factor" validate:"gt=0"`
		PremiumFactor  float64 `json:"premium_factor" validate:"gt=0"`
		SeenPenalty    float64 `json:"seen_penalty" validate:"gt=0"`
		FreshBonus     float64 `json:"fresh_bonus" validate:"gt=0"`
		ProximityCap   float64 `json:"proximity_cap" validate:"gte=0"`
		AffinityCap    float64 `json:"affinity_cap" validate:"gte=0"`
	}
)

func NewRankingAdminHandler(svc WeightsService, defaultProfile string) *RankingAdminHandler {
	return &RankingAdminHandler{
		weightsService: svc,
		profile:        defaultProfile,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

// GET /api/v1/admin/ranking/weights?profile=default
func (h *RankingAdminHandler) GetWeights(c echo.Context) error {
	profile := c.QueryParam("profile")
	if profile == "" {
		profile = h.profile
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	w, err := h.weightsService.GetWeights(ctx, profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(w))
}

// PUT /api/v1/admin/ranking/weights
func (h *RankingAdminHandler) UpsertWeights(c echo.Context) error {
	var req UpsertWeightsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	saved, err := h.weightsService.UpsertWeights(ctx, domain.RankingWeights{
		Profile:        req.Profile,
		RatingWeight:   req.RatingWeight,
		ReviewWeight:   req.ReviewWeight,
		ReviewCap:      req.ReviewCap,
		FavoriteWeight: req.FavoriteWeight,
		FavoriteCap:    req.FavoriteCap,
		PhotoWeight:    req.PhotoWeight,
		AmenityWeight:  req.AmenityWeight,
		RecencyCap:     req.RecencyCap,
		FeaturedFactor: req.FeaturedFactor,
		PremiumFactor:  req.PremiumFactor,
		SeenPenalty:    req.SeenPenalty,
		FreshBonus:     req.FreshBonus,
		ProximityCap:   req.ProximityCap,
		AffinityCap:    req.AffinityCap,
	})
	if err != nil {
		if errors.Is(err, ranking.ErrInvalidWeights) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to upsert ranking weights", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(saved))
}
