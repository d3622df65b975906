package api

import (
	"io"
	"net/http"
	"time"

	models "SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/internal/services/structure"
	"SwingSight/internal/usecase"
	xhttp "SwingSight/pkg/http"
	xlogger "SwingSight/pkg/logger"
	"SwingSight/pkg/queue"
	"SwingSight/pkg/util"

	"github.com/labstack/echo/v4"
)

const maxImportBody = 32 << 20 // 32 MiB of CSV

// StructureHandler exposes the analysis endpoints.
type StructureHandler struct {
	logger    *xlogger.Logger
	structure *usecase.StructureUseCase
	candles   *usecase.CandlesUseCase
	signals   *usecase.SignalUseCase
	jobs      queue.QueueService
}

func NewStructureHandler(
	logger *xlogger.Logger,
	structureUC *usecase.StructureUseCase,
	candlesUC *usecase.CandlesUseCase,
	signalsUC *usecase.SignalUseCase,
	jobs queue.QueueService,
) *StructureHandler {
	return &StructureHandler{
		logger:    logger,
		structure: structureUC,
		candles:   candlesUC,
		signals:   signalsUC,
		jobs:      jobs,
	}
}

func (h *StructureHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/structure", h.Structure)
	g.GET("/candles", h.Candles)
	g.POST("/candles/import", h.Import)
	g.GET("/signals", h.Signals)
	g.GET("/context", h.Context)
}

func (h *StructureHandler) Structure(c echo.Context) error {
	req := &models.StructureRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	p := usecase.AnalyzeParams{
		Symbol:    req.Symbol,
		Timeframe: tf,
		N:         req.N,
		Settings:  settingsFromRequest(req),
	}
	analysis, err := h.structure.Analyze(c.Request().Context(), p)
	if err != nil {
		h.logger.Error("structure usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if req.Journal {
		if _, err := h.signals.Record(c.Request().Context(), analysis); err != nil {
			h.logger.Error("signal record error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, analysis)
}

func (h *StructureHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	from, to := parseRange(req.From, req.To, string(tf))
	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: tf,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Import accepts a raw CSV body and queues the ingest so big files do not
// hold the request open.
func (h *StructureHandler) Import(c echo.Context) error {
	req := &models.ImportRequest{
		Symbol: c.QueryParam("symbol"),
		TF:     c.QueryParam("tf"),
	}
	if req.Symbol == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code: "ERR_REQUIRED", Field: "symbol", Message: "symbol is required",
		}})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBody+1))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if len(body) == 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code: "ERR_REQUIRED", Field: "body", Message: "csv body is required",
		}})
	}
	if len(body) > maxImportBody {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code: "ERR_MAX", Field: "body", Message: "csv body too large",
		}})
	}

	payload := usecase.CSVImportPayload{
		Symbol:    req.Symbol,
		Timeframe: string(domrepo.NormalizeTimeframe(req.TF)),
		Data:      string(body),
	}
	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.CSVImportJobType, payload); err != nil {
		h.logger.Error("import enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{
		"status": "queued",
		"symbol": req.Symbol,
	})
}

func (h *StructureHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	events, err := h.signals.Recent(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, events)
}

func (h *StructureHandler) Context(c echo.Context) error {
	req := &models.ContextRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.TF)

	_, mc, err := h.structure.AnalyzeWithContext(c.Request().Context(), usecase.AnalyzeParams{
		Symbol:    req.Symbol,
		Timeframe: tf,
		N:         req.N,
	})
	if err != nil {
		h.logger.Error("context usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, mc)
}

func settingsFromRequest(req *models.StructureRequest) structure.Settings {
	return structure.Settings{
		ShowHighs:              req.ShowHighs,
		ShowLows:               req.ShowLows,
		Sensitivity:            req.Sensitivity,
		MaxSwingPoints:         req.MaxSwingPoints,
		ShowRegime:             req.ShowRegime,
		FastMALength:           req.FastMALength,
		SlowMALength:           req.SlowMALength,
		RegimeConfirmationBars: req.RegimeConfirmationBars,
		EnableRays:             req.EnableRays,
		RaySensitivity:         req.RaySensitivity,
		NumRaysToShow:          req.NumRaysToShow,
	}
}

func parseRange(fromRaw, toRaw, tf string) (from, to time.Time) {
	now := time.Now().UTC()
	to = util.ParseTimeDefault(toRaw, now)
	from = util.ParseTimeDefault(fromRaw, to.Add(-30*24*time.Hour))
	return util.AlignFromTo(from, to, tf)
}
