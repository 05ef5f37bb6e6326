package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/service/extraction"
	"github.com/mamadbah2/fuelstation/pkg/clients/anthropic"
)

const documentField = "document"

var supportedMediaTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
}

// ExtractionHandler accepts scanned documents and returns ledger drafts.
type ExtractionHandler struct {
	svc      *extraction.Service
	maxBytes int64
	logger   *zap.Logger
}

// NewExtractionHandler constructs the HTTP handler adapter.
func NewExtractionHandler(svc *extraction.Service, maxBytes int64, logger *zap.Logger) *ExtractionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

// Extract handles POST /api/extract/:kind with a multipart "document" file.
// Optional form fields tank_id and account fill what the paper lacks.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	kind, err := extraction.ParseKind(c.Param("kind"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	header, err := c.FormFile(documentField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"document\" is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	mediaType := detectMediaType(header.Header.Get("Content-Type"), data)
	if !supportedMediaTypes[mediaType] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported document type " + mediaType})
		return
	}

	result, err := h.svc.Extract(c.Request.Context(), extraction.Request{
		Kind:     kind,
		Document: anthropic.Document{MediaType: mediaType, Data: data},
		TankID:   c.PostForm("tank_id"),
		Account:  c.PostForm("account"),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func detectMediaType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && supportedMediaTypes[mt] {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
