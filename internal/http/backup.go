package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/backup"
)

// maxSnapshotSize bounds uploaded snapshots.
const maxSnapshotSize = 64 << 20

type BackupController struct {
	service BackupService
	now     func() time.Time
}

func NewBackupController(service BackupService) *BackupController {
	return &BackupController{service: service, now: time.Now}
}

// Export streams a full snapshot as a JSON attachment.
func (controller *BackupController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := controller.service.Export(c.Request.Context(), &buf); err != nil {
		respondStoreError(c, err, "backup")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+backup.FileName(controller.now(), 1))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// Import restores a snapshot sent as the raw request body or as the
// "file" field of a multipart form.
func (controller *BackupController) Import(c *gin.Context) {
	var body io.Reader = http.MaxBytesReader(c.Writer, c.Request.Body, maxSnapshotSize)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			respondBadRequest(c, "file is required")
			return
		}
		f, err := header.Open()
		if err != nil {
			respondInternalError(c, err, "open uploaded snapshot")
			return
		}
		defer f.Close()
		body = f
	}

	result, err := controller.service.Import(c.Request.Context(), body)
	if err != nil {
		respondStoreError(c, err, "backup")
		return
	}
	c.IndentedJSON(http.StatusOK, result)
}
