package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/transtool/internal/config"
	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/handler"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/internal/repository"
	"github.com/locvowork/transtool/internal/service"
	"github.com/locvowork/transtool/internal/service/serviceutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newHandler(t *testing.T) *handler.CheckHandler {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"projects.json":      `{"projects": {"game": {"name": "Game", "tags": []}}}`,
		"errDict.json":       `{"version": "e1", "err": {"登錄": {"fix": "登入"}}, "warn": {}, "repeat": [], "transhint": {}}`,
		"termDict_game.json": `{"version": "t1", "word": [{"ja": "見積", "zh": "報價"}]}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	store, err := dictionary.Load(dir)
	require.NoError(t, err)
	return handler.NewCheckHandler(service.NewCheckService(store, repository.NewNopCheckRunRepository()))
}

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "原文")
	f.SetCellValue("Sheet1", "A2", "請先登錄")
	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fileName string, content []byte, cfg string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if cfg != "" {
		require.NoError(t, w.WriteField("config", cfg))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/check", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) serviceutils.GenericResponse {
	t.Helper()
	var resp serviceutils.GenericResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckFileHandler(t *testing.T) {
	e := echo.New()
	h := newHandler(t)
	const commonCfg = `{"project": "game", "mode": "common", "inputCol": "a", "outputCol1": "B", "outputCol2": "C"}`

	t.Run("Success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(multipartRequest(t, "strings.xlsx", workbook(t), commonCfg), rec)

		if assert.NoError(t, h.CheckFileHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
			assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "checked_strings.xlsx")
			assert.Equal(t, "1", rec.Header().Get("X-Hints"))

			f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
			require.NoError(t, err)
			defer f.Close()
			v, err := f.GetCellValue("Sheet1", "B2")
			require.NoError(t, err)
			assert.Equal(t, "登錄→登入", v)
		}
	})

	tests := []struct {
		name     string
		fileName string
		content  []byte
		cfg      string
		code     int
		msg      string
	}{
		{"NoFile", "", nil, commonCfg, http.StatusBadRequest, "沒有文件"},
		{"WrongExtension", "strings.xls", []byte("x"), commonCfg, http.StatusBadRequest, "僅支持.xlsx文件"},
		{"NoProject", "strings.xlsx", workbook(t), `{"mode": "spec", "inputCol": "A", "outputCol1": "B"}`, http.StatusBadRequest, "無效的項目ID"},
		{"UnknownProject", "strings.xlsx", workbook(t), `{"project": "x", "mode": "spec", "inputCol": "A", "outputCol1": "B"}`, http.StatusBadRequest, "無效的項目ID"},
		{"BadColumn", "strings.xlsx", workbook(t), `{"project": "game", "mode": "spec", "inputCol": "AB", "outputCol1": "B"}`, http.StatusBadRequest, "無效的配置"},
		{"BadJSON", "strings.xlsx", workbook(t), `{`, http.StatusBadRequest, "invalid config"},
		{"Malformed", "strings.xlsx", []byte("not a workbook"), commonCfg, http.StatusUnprocessableEntity, "無法讀取工作簿"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(multipartRequest(t, tt.fileName, tt.content, tt.cfg), rec)

			if assert.NoError(t, h.CheckFileHandler(c)) {
				assert.Equal(t, tt.code, rec.Code)
				resp := decode(t, rec)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.msg, resp.Message)
			}
		})
	}

	t.Run("TooLarge", func(t *testing.T) {
		prev := config.DefaultEnvConfig.MAX_FILE_SIZE_MB
		config.DefaultEnvConfig.MAX_FILE_SIZE_MB = 1
		defer func() { config.DefaultEnvConfig.MAX_FILE_SIZE_MB = prev }()

		big := make([]byte, 1536*1024)
		rec := httptest.NewRecorder()
		c := e.NewContext(multipartRequest(t, "big.xlsx", big, commonCfg), rec)

		if assert.NoError(t, h.CheckFileHandler(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "文件過大（1.5MB），建議小於 1MB", decode(t, rec).Message)
		}
	})
}

func TestProjectEndpoints(t *testing.T) {
	e := echo.New()
	h := newHandler(t)

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)

		if assert.NoError(t, h.HealthHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			data := decode(t, rec).Data.(map[string]interface{})
			assert.Equal(t, "ok", data["status"])
			assert.Equal(t, []interface{}{"game"}, data["projects"])
		}
	})

	t.Run("Projects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/projects", nil), rec)

		if assert.NoError(t, h.ListProjectsHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"game":{`)
		}
	})

	t.Run("ProjectInfo", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetPath("/api/project/:id")
		c.SetParamNames("id")
		c.SetParamValues("game")

		if assert.NoError(t, h.GetProjectHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			data := decode(t, rec).Data.(map[string]interface{})
			assert.Equal(t, "e1", data["errDictVersion"])
			assert.Equal(t, "t1", data["termDictVersion"])
		}
	})

	t.Run("ProjectInfoNotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		if assert.NoError(t, h.GetProjectHandler(c)) {
			assert.Equal(t, http.StatusNotFound, rec.Code)
		}
	})

	t.Run("Runs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=5", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues("game")

		if assert.NoError(t, h.ListRunsHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"runs":[]`)
		}
	})

	t.Run("RunsBadLimit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=x", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues("game")

		if assert.NoError(t, h.ListRunsHandler(c)) {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("Reload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/reload-config", nil), rec)

		if assert.NoError(t, h.ReloadHandler(c)) {
			assert.Equal(t, http.StatusOK, rec.Code)
			resp := decode(t, rec)
			assert.True(t, resp.Success)
			assert.Equal(t, float64(1), resp.Data.(map[string]interface{})["projects_count"])
		}
	})
}

func TestErrorHandler_BodyTooLarge(t *testing.T) {
	prev := config.DefaultEnvConfig.MAX_FILE_SIZE_MB
	config.DefaultEnvConfig.MAX_FILE_SIZE_MB = 10
	defer func() { config.DefaultEnvConfig.MAX_FILE_SIZE_MB = prev }()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/check", nil), rec)

	handler.ErrorHandler(echo.ErrStatusRequestEntityTooLarge, c)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "文件過大，建議小於 10MB", decode(t, rec).Message)
}

func TestRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	c := e.NewContext(req, httptest.NewRecorder())

	var got string
	err := handler.RequestContext()(func(c echo.Context) error {
		got = logger.RequestID(c.Request().Context())
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}
