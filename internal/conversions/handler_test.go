package conversions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/server/middleware"
)

const testToken = "s3cret"

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(&r.RouterGroup, middleware.BearerAuth(testToken))
	return r
}

func postJSON(r *gin.Engine, body string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/converter", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateReturnsKeys(t *testing.T) {
	f := newFixture(t)
	dir := f.dir("h1")
	pdfPath := filepath.Join(dir, "h1.pdf")
	htmlPath := filepath.Join(dir, "h1.html")

	f.store.On("Fetch", ctxMatcher, testBucket, "resumes/h1.pdf", pdfPath).Run(writesFile(3, pdfBytes)).Return(nil).Once()
	f.renderer.On("RenderHTML", ctxMatcher, pdfPath, dir, "h1.html").
		Run(writesAt(htmlPath, []byte("<html/>"))).Return(htmlPath, nil).Once()
	f.expectUploads("h1")

	resp := postJSON(newRouter(f), `{"uid":"h1","file_name":"cv.pdf","file_ext":"pdf","key":"resumes/h1.pdf"}`, testToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body ConversionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "/enlist-converted-resumes/h1/h1.html", body.FilePathToHTML)
	assert.Equal(t, "/enlist-converted-resumes/h1/h1.pdf", body.FilePathToPDF)
}

func TestCreateTrimsFields(t *testing.T) {
	f := newFixture(t)
	dir := f.dir("h4")
	pdfPath := filepath.Join(dir, "h4.pdf")
	htmlPath := filepath.Join(dir, "h4.html")

	f.store.On("Fetch", ctxMatcher, testBucket, "resumes/h4.pdf", pdfPath).Run(writesFile(3, pdfBytes)).Return(nil).Once()
	f.renderer.On("RenderHTML", ctxMatcher, pdfPath, dir, "h4.html").
		Run(writesAt(htmlPath, []byte("<html/>"))).Return(htmlPath, nil).Once()
	f.expectUploads("h4")

	resp := postJSON(newRouter(f), `{"uid":" h4 ","file_name":" cv.pdf\t","file_ext":" pdf ","key":" resumes/h4.pdf\n"}`, testToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body ConversionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "/enlist-converted-resumes/h4/h4.html", body.FilePathToHTML)
	assert.Equal(t, "/enlist-converted-resumes/h4/h4.pdf", body.FilePathToPDF)
	f.store.AssertExpectations(t)
}

func TestCreateRejectsBlankUID(t *testing.T) {
	f := newFixture(t)
	resp := postJSON(newRouter(f), `{"uid":"   ","file_name":"cv.pdf","file_ext":"pdf","key":"resumes/x.pdf"}`, testToken)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	f.store.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAcceptsNestedParams(t *testing.T) {
	f := newFixture(t)
	f.store.On("Fetch", ctxMatcher, testBucket, "resumes/h2.doc", mock.Anything).
		Return(apperr.ErrObjectNotFound).Once()

	resp := postJSON(newRouter(f), `{"converter":{"uid":"h2","file_name":"cv.doc","file_ext":"doc","key":"resumes/h2.doc"}}`, testToken)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeObjectNotFound, body.Code)
	assert.Equal(t, "The file you're trying to convert does not exist", body.Message)
}

func TestCreateMissingFields(t *testing.T) {
	f := newFixture(t)
	resp := postJSON(newRouter(f), `{"uid":"h3","key":"k"}`, testToken)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), `"message":"required_keys_missing"`)
	f.store.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRequiresToken(t *testing.T) {
	f := newFixture(t)
	resp := postJSON(newRouter(f), `{"uid":"h4","file_name":"a","file_ext":"doc","key":"k"}`, "wrong")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), middleware.UnauthorizedMessage)
}

func TestIndexIsLiveness(t *testing.T) {
	f := newFixture(t)
	resp := httptest.NewRecorder()
	newRouter(f).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/converter", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}
