package handlers

import (
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/queue"
	"github.com/your-org/facetag/internal/storage"
)

// UploadHandler accepts new source photos. Storing the object and
// publishing the upload notification is what kicks the detection pipeline
// off; the cloud deployment this replaced got the notification from the
// object store itself.
type UploadHandler struct {
	objects  *storage.MinIOStore
	producer *queue.Producer
}

func NewUploadHandler(objects *storage.MinIOStore, producer *queue.Producer) *UploadHandler {
	return &UploadHandler{objects: objects, producer: producer}
}

// Upload handles POST /upload with a multipart "photo" file field.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	key := uuid.New().String() + path.Ext(header.Filename)
	bucket := h.objects.PhotosBucket()

	ctx := c.Request.Context()
	if err := h.objects.PutObject(ctx, bucket, key, data, header.Header.Get("Content-Type")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.producer.PublishUpload(ctx, models.UploadEvent{Bucket: bucket, Object: key}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bucket": bucket, "object": key})
}
