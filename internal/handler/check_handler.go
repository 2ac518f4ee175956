package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/transtool/internal/config"
	"github.com/locvowork/transtool/internal/dictionary"
	"github.com/locvowork/transtool/internal/logger"
	"github.com/locvowork/transtool/internal/service"
	"github.com/locvowork/transtool/internal/service/serviceutils"
	"github.com/locvowork/transtool/pkg/checker"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CheckHandler struct {
	svc service.CheckService
}

func NewCheckHandler(svc service.CheckService) *CheckHandler {
	return &CheckHandler{svc: svc}
}

// checkForm is the JSON carried in the multipart "config" field.
type checkForm struct {
	Project string `json:"project"`
	checker.Config
}

func (h *CheckHandler) HealthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"projects":  h.svc.ProjectIDs(ctx),
	})
}

func (h *CheckHandler) ListProjectsHandler(c echo.Context) error {
	projects, err := h.svc.Projects(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "字典尚未載入", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", map[string]interface{}{"projects": projects})
}

func (h *CheckHandler) GetProjectHandler(c echo.Context) error {
	info, err := h.svc.ProjectInfo(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, dictionary.ErrUnknownProject) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "無效的項目ID", nil)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "載入項目詞典失敗", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", info)
}

func (h *CheckHandler) ListRunsHandler(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid limit", err)
		}
		limit = n
	}

	runs, err := h.svc.RecentRuns(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, dictionary.ErrUnknownProject) {
			return serviceutils.ResponseError(c, http.StatusNotFound, "無效的項目ID", nil)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to list check runs", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", map[string]interface{}{"runs": runs})
}

func (h *CheckHandler) ReloadHandler(c echo.Context) error {
	snap, err := h.svc.Reload(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "重新加载失败", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "配置文件重新加载成功", map[string]interface{}{
		"projects_count": len(snap.Projects),
		"timestamp":      snap.LoadedAt.Format(time.RFC3339),
	})
}

func (h *CheckHandler) CheckFileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	fh, err := c.FormFile("file")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "沒有文件", nil)
	}
	if fh.Filename == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "文件名為空", nil)
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "僅支持.xlsx文件", nil)
	}
	if fh.Size > config.DefaultEnvConfig.MaxFileSize() {
		return serviceutils.ResponseError(c, http.StatusBadRequest, config.DefaultEnvConfig.FileSizeErrorMsg(fh.Size), nil)
	}

	var form checkForm
	if raw := c.FormValue("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid config", err)
		}
	}
	if form.Project == "" {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "無效的項目ID", nil)
	}

	src, err := fh.Open()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "failed to read upload", err)
	}
	defer src.Close()

	logger.InfoLog(ctx, "check %s (%d bytes) project=%s mode=%s", fh.Filename, fh.Size, form.Project, form.Mode)
	res, err := h.svc.Check(ctx, service.CheckRequest{
		ProjectID: form.Project,
		FileName:  fh.Filename,
		Config:    form.Config,
		File:      src,
	})
	if err != nil {
		switch {
		case errors.Is(err, dictionary.ErrUnknownProject):
			return serviceutils.ResponseError(c, http.StatusBadRequest, "無效的項目ID", nil)
		case errors.Is(err, checker.ErrInvalidConfiguration):
			return serviceutils.ResponseError(c, http.StatusBadRequest, "無效的配置", err)
		case errors.Is(err, checker.ErrMalformedDocument):
			return serviceutils.ResponseError(c, http.StatusUnprocessableEntity, "無法讀取工作簿", err)
		}
		logger.ErrorLog(ctx, "check %s failed: %v", fh.Filename, err)
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "處理失敗", err)
	}

	c.Response().Header().Set("X-Rows-Scanned", strconv.Itoa(res.Report.RowsScanned))
	c.Response().Header().Set("X-Hints", strconv.Itoa(res.Report.Hints))
	return serviceutils.ResponseFile(c, xlsxContentType, res.FileName, res.Content)
}
