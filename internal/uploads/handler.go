package uploads

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/server/respond"
)

const invalidUploadMessage = "The file type you're trying to upload is not supported"

type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the uploader routes. throttle guards the public upload,
// auth guards the link endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, throttle, auth gin.HandlerFunc) {
	rg.POST("/uploader", throttle, h.create)
	rg.GET("/uploader/link", auth, h.link)
}

type uploadResponse struct {
	Key string `json:"key"`
}

type linkResponse struct {
	URL string `json:"url"`
}

func (h *Handler) create(c *gin.Context) {
	c.Set("pipeline", PipelineName)
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Fail(c, apperr.Wrap(apperr.ErrInvalidRequest, err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Fail(c, err)
		return
	}
	defer file.Close()

	key, err := h.Svc.Upload(c.Request.Context(), Request{
		File:     file,
		FileName: fileHeader.Filename,
		IsResume: truthy(c.PostForm("is_resume")),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidFileType) {
			respond.Error(c, http.StatusUnprocessableEntity, apperr.CodeInvalidFileType, invalidUploadMessage, err.Error())
			return
		}
		respond.Fail(c, err)
		return
	}

	respond.OK(c, uploadResponse{Key: key})
}

func (h *Handler) link(c *gin.Context) {
	url, err := h.Svc.PublicLink(c.Request.Context(), c.Query("key"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, linkResponse{URL: url})
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "on":
		return true
	}
	return false
}
