package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ous-demographics/internal/pkg/errors"
	"github.com/ous-demographics/internal/pkg/utils"
	"github.com/ous-demographics/internal/usecase/dto"
)

// DemographicService - операции расчета демографии, нужные обработчику
type DemographicService interface {
	OverlapSketch(ctx context.Context, req dto.OverlapRequest) (*dto.OverlapResponse, error)
	Baseline(ctx context.Context) (*dto.BaselineResponse, error)
}

// DemographicHandler обрабатывает запросы демографии пересечения
type DemographicHandler struct {
	demographicUC DemographicService
	logger        *zap.Logger
}

// NewDemographicHandler создает новый экземпляр DemographicHandler
func NewDemographicHandler(demographicUC DemographicService, logger *zap.Logger) *DemographicHandler {
	return &DemographicHandler{
		demographicUC: demographicUC,
		logger:        logger,
	}
}

// Overlap godoc
// @Summary Demographic overlap of a sketch
// @Description Считает число респондентов и людей, чьи районы активности пересекают участок или коллекцию участков
// @Tags Demographics
// @Accept json
// @Produce json
// @Param request body dto.OverlapRequest true "Участок (GeoJSON Feature или FeatureCollection)"
// @Success 200 {object} dto.OverlapResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/demographics/overlap [post]
func (h *DemographicHandler) Overlap(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.OverlapRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.Wrap(errors.ErrInvalidRequest, err))
	}

	resp, err := h.demographicUC.OverlapSketch(c.UserContext(), req)
	if err != nil {
		h.logger.Error("Failed to calculate overlap", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, &utils.Meta{
		Cached:   resp.Cached,
		Records:  resp.Records,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Baseline godoc
// @Summary Survey-wide demographic totals
// @Description Возвращает предрасчитанные итоги по всему опросу (рассчитывает при отсутствии)
// @Tags Demographics
// @Produce json
// @Success 200 {object} dto.BaselineResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/demographics/baseline [get]
func (h *DemographicHandler) Baseline(c *fiber.Ctx) error {
	resp, err := h.demographicUC.Baseline(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to get baseline", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Cached: resp.Cached})
}
