package parsing

import (
	"strings"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/server/middleware"
	"cargo-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/parser", auth, h.create)
}

func (h *Handler) create(c *gin.Context) {
	c.Set("pipeline", PipelineName)

	var body parseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Fail(c, apperr.Wrap(apperr.ErrInvalidRequest, err))
		return
	}
	fields := body.fields()
	fields.UID = strings.TrimSpace(fields.UID)
	fields.FileName = strings.TrimSpace(fields.FileName)
	fields.FileExt = strings.TrimSpace(fields.FileExt)
	fields.Key = strings.TrimSpace(fields.Key)
	if !fields.complete() {
		respond.Fail(c, apperr.Wrapf(apperr.ErrInvalidRequest, "uid, file_name, file_ext and key are required"))
		return
	}
	c.Set("uid", fields.UID)

	res, err := h.Svc.Parse(c.Request.Context(), Request{
		UID:       fields.UID,
		FileName:  fields.FileName,
		Key:       fields.Key,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, toResponse(res))
}
