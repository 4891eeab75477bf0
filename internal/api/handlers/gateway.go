package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facetag/internal/storage"
)

// GatewayHandler serves bucket objects over HTTP so the chat platform can
// fetch photos by URL instead of receiving uploaded bytes.
type GatewayHandler struct {
	objects *storage.MinIOStore
}

func NewGatewayHandler(objects *storage.MinIOStore) *GatewayHandler {
	return &GatewayHandler{objects: objects}
}

// Face serves a crop from the faces bucket: GET /?face=<key>.
func (h *GatewayHandler) Face(c *gin.Context) {
	key := c.Query("face")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing face parameter"})
		return
	}
	h.serve(c, h.objects.FacesBucket(), key)
}

// Original serves a source photo from the photos bucket:
// GET /original/?photo=<key>.
func (h *GatewayHandler) Original(c *gin.Context) {
	key := c.Query("photo")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo parameter"})
		return
	}
	h.serve(c, h.objects.PhotosBucket(), key)
}

func (h *GatewayHandler) serve(c *gin.Context, bucket, key string) {
	data, err := h.objects.GetObject(c.Request.Context(), bucket, key)
	if err != nil {
		// A photos row can outlive its object; the gap surfaces here.
		c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}
