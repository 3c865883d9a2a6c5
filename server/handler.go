package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
	"github.com/dendrascience/zipsort/logging"
	"github.com/dendrascience/zipsort/tree"
	"github.com/dendrascience/zipsort/version"
	"github.com/dendrascience/zipsort/workflow"
)

type Handler struct {
	service *Service
	log     *logging.Logger
}

func NewHandler(service *Service, log *logging.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) format(c echo.Context) (archive.Format, error) {
	name := c.FormValue("format")
	if name == "" {
		return h.service.cfg.ArchiveFormat(), nil
	}
	f, err := archive.ParseFormat(name)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return f, nil
}

func (h *Handler) archiveUpload(c echo.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "An archive upload named 'file' is required")
	}
	data, err := readUpload(fh)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "Failed to read upload")
	}
	return fh.Filename, data, nil
}

func (h *Handler) Extract(c echo.Context) error {
	name, data, err := h.archiveUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, h.service.StartExtract(name, data))
}

func (h *Handler) Organize(c echo.Context) error {
	f, err := h.format(c)
	if err != nil {
		return err
	}
	name, data, err := h.archiveUpload(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, h.service.StartOrganize(name, data, f))
}

// Compress accepts any number of "files" parts. The optional "paths" fields
// carry each file's path relative to the selection root, in the same order.
func (h *Handler) Compress(c echo.Context) error {
	f, err := h.format(c)
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one upload named 'files' is required")
	}
	paths := form.Value["paths"]

	uploads := make([]Upload, 0, len(files))
	for i, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read upload")
		}
		u := Upload{Name: fh.Filename, Data: data}
		if i < len(paths) {
			u.RelativePath = paths[i]
		}
		uploads = append(uploads, u)
	}
	return c.JSON(http.StatusAccepted, h.service.StartCompress(uploads, f))
}

func (h *Handler) session(c echo.Context) (*Session, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid operation ID format")
	}
	sess, err := h.service.Get(id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Operation not found")
	}
	return sess, nil
}

func (h *Handler) result(c echo.Context) (*Result, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	res, err := sess.Slot.Result()
	if err != nil {
		op := sess.Slot.Snapshot()
		if op.State == workflow.Failed {
			return nil, echo.NewHTTPError(http.StatusUnprocessableEntity, op.Message)
		}
		return nil, echo.NewHTTPError(http.StatusConflict, ErrNotReady.Error())
	}
	return res, nil
}

func (h *Handler) GetOperation(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Slot.Snapshot())
}

func (h *Handler) GetTree(c echo.Context) error {
	res, err := h.result(c)
	if err != nil {
		return err
	}
	if res.Tree == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrWrongKind.Error())
	}
	return c.JSON(http.StatusOK, res.Tree)
}

func attachment(c echo.Context, name string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(data)))
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

// DownloadFile serves one leaf of the tree under its own base name.
func (h *Handler) DownloadFile(c echo.Context) error {
	res, err := h.result(c)
	if err != nil {
		return err
	}
	if res.Tree == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrWrongKind.Error())
	}
	n, err := res.Tree.LookupFile(c.QueryParam("path"))
	if errors.Is(err, tree.ErrNotFile) {
		return echo.NewHTTPError(http.StatusBadRequest, "Path names a directory")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	return attachment(c, n.Name, n.Content)
}

func (h *Handler) ListBuckets(c echo.Context) error {
	res, err := h.result(c)
	if err != nil {
		return err
	}
	if res.Organized == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrWrongKind.Error())
	}
	return c.JSON(http.StatusOK, res.Organized.Buckets.Summary())
}

// DownloadBucket serves one bucket archive. A published archive in the
// requested format is read back from the sink; anything else is encoded on
// demand. The empty key is addressed by its label "_".
func (h *Handler) DownloadBucket(c echo.Context) error {
	res, err := h.result(c)
	if err != nil {
		return err
	}
	if res.Organized == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrWrongKind.Error())
	}
	f, err := h.format(c)
	if err != nil {
		return err
	}
	key := c.Param("key")
	if key == bucket.Label("") {
		key = ""
	}
	if res.Published != nil && f == res.Format {
		if _, ok := res.Organized.Buckets.Get(key); ok {
			name := bucket.FileName(key, f)
			data, err := res.Published.Get(c.Request().Context(), name)
			if err == nil {
				return attachment(c, name, data)
			}
			h.log.Warn("Failed to read published bucket, encoding it again", zap.String("key", key), zap.Error(err))
		}
	}
	var buf bytes.Buffer
	if err := res.Organized.Buckets.Encode(key, &buf, f); err != nil {
		if errors.Is(err, bucket.ErrUnknownBucket) {
			return echo.NewHTTPError(http.StatusNotFound, "Bucket not found")
		}
		h.log.Error("Failed to encode bucket", zap.String("key", key), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, workflow.FailureMessage(workflow.KindOrganize))
	}
	return attachment(c, bucket.FileName(key, f), buf.Bytes())
}

func (h *Handler) DownloadArchive(c echo.Context) error {
	res, err := h.result(c)
	if err != nil {
		return err
	}
	if res.Archive == nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrWrongKind.Error())
	}
	return attachment(c, res.Name, res.Archive)
}
