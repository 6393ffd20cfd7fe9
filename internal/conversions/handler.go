package conversions

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/server/middleware"
	"cargo-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the converter routes. auth guards the POST only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("/converter", h.index)
	rg.POST("/converter", auth, h.create)
}

func (h *Handler) index(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) create(c *gin.Context) {
	c.Set("pipeline", PipelineName)

	var body conversionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Fail(c, apperr.Wrap(apperr.ErrInvalidRequest, err))
		return
	}
	fields := body.fields()
	fields.UID = strings.TrimSpace(fields.UID)
	fields.FileName = strings.TrimSpace(fields.FileName)
	fields.FileExt = strings.TrimSpace(fields.FileExt)
	fields.Key = strings.TrimSpace(fields.Key)
	c.Set("uid", fields.UID)

	res, err := h.Svc.Convert(c.Request.Context(), Request{
		UID:       fields.UID,
		FileName:  fields.FileName,
		FileExt:   fields.FileExt,
		Key:       fields.Key,
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		respond.Fail(c, err)
		return
	}

	respond.OK(c, toResponse(res))
}
