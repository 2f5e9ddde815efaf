package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/application/services"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/interface/api/rest/dto/pipeline"
	"expiry-scanner-api/internal/interface/api/rest/validator"
)

const (
	msgUploadFailed   = "Error creating upload target"
	msgAnalysisFailed = "Analysis failed"
)

type PipelineController struct {
	logger          *zap.Logger
	pipelineService ports.PipelineService
}

func NewPipelineController(
	r *gin.Engine,
	logger *zap.Logger,
	pipelineService ports.PipelineService,
) *PipelineController {
	pc := &PipelineController{
		logger:          logger,
		pipelineService: pipelineService,
	}

	r.POST(RouteUploadTarget, pc.UploadTargetHandler)
	r.POST(RouteAnalyze, pc.AnalyzeHandler)

	return pc
}

func (pc *PipelineController) UploadTargetHandler(c *gin.Context) {
	var req pipeline.UploadTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validator.ValidateUploadTarget(req); errs != nil {
		respondInvalid(c, "Missing filename or contentType in request body", errs)
		return
	}

	tg, err := pc.pipelineService.RequestUploadTarget(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, services.ErrEmptyFilename) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		pc.logger.Error("RequestUploadTarget() error", zap.Error(err), zap.String("filename", req.Filename))
		respondError(c, http.StatusInternalServerError, msgUploadFailed)
		return
	}

	c.JSON(http.StatusOK, pipeline.ToUploadTargetResponse(*tg))
}

func (pc *PipelineController) AnalyzeHandler(c *gin.Context) {
	var req pipeline.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validator.ValidateAnalyze(req); errs != nil {
		respondInvalid(c, "Missing imageUrl or email in request body", errs)
		return
	}

	res, err := pc.pipelineService.RunAnalysis(c.Request.Context(), req.ImageURL, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			respondError(c, http.StatusNotFound, apperr.MessageOf(err, services.MsgUserNotFound))
		case errors.Is(err, apperr.ErrConfiguration):
			pc.logger.Error("RunAnalysis() misconfigured", zap.Error(err))
			respondError(c, http.StatusInternalServerError, msgAnalysisFailed)
		default:
			pc.logger.Error("RunAnalysis() error", zap.Error(err), zap.String("image_url", req.ImageURL))
			respondError(c, http.StatusInternalServerError, apperr.MessageOf(err, msgAnalysisFailed))
		}
		return
	}

	c.JSON(http.StatusOK, pipeline.ToAnalyzeResponse(res))
}
