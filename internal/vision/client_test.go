package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/facetag/internal/config"
	"github.com/your-org/facetag/internal/models"
)

// The upstream API returns coordinates as quoted strings and omits
// zero-valued fields entirely. The response below is shaped like a real
// two-face answer.
const twoFacesResponse = `{
  "results": [{
    "results": [{
      "faceDetection": {
        "faces": [
          {"boundingBox": {"vertices": [
            {"y": "20"}, {"x": "50", "y": "20"},
            {"x": "50", "y": "80"}, {"y": "80"}
          ]}},
          {"boundingBox": {"vertices": [
            {"x": "100", "y": "30"}, {"x": "140", "y": "30"},
            {"x": "140", "y": "90"}, {"x": "100", "y": "90"}
          ]}}
        ]
      }
    }]
  }]
}`

func newTestClient(serverURL string) *Client {
	return NewClient(config.VisionConfig{
		BaseURL:  serverURL,
		Token:    "test-token",
		FolderID: "folder-1",
	})
}

func TestDetectFaces(t *testing.T) {
	image := []byte("fake image bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vision/v1/batchAnalyze", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			FolderID     string `json:"folderId"`
			AnalyzeSpecs []struct {
				Content  string `json:"content"`
				Features []struct {
					Type string `json:"type"`
				} `json:"features"`
			} `json:"analyze_specs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "folder-1", req.FolderID)
		require.Len(t, req.AnalyzeSpecs, 1)
		assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.AnalyzeSpecs[0].Content)
		require.Len(t, req.AnalyzeSpecs[0].Features, 1)
		assert.Equal(t, "FACE_DETECTION", req.AnalyzeSpecs[0].Features[0].Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoFacesResponse))
	}))
	defer server.Close()

	faces, err := newTestClient(server.URL).DetectFaces(context.Background(), image)
	require.NoError(t, err)
	require.Len(t, faces, 2)

	// Omitted x fields decode as 0.
	assert.Equal(t, [4]models.Point{{X: 0, Y: 20}, {X: 50, Y: 20}, {X: 50, Y: 80}, {X: 0, Y: 80}}, faces[0])
	assert.Equal(t, [4]models.Point{{X: 100, Y: 30}, {X: 140, Y: 30}, {X: 140, Y: 90}, {X: 100, Y: 90}}, faces[1])
}

func TestDetectFacesNoFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"results":[{"faceDetection":{}}]}]}`))
	}))
	defer server.Close()

	faces, err := newTestClient(server.URL).DetectFaces(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDetectFacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DetectFaces(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDetectFacesEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DetectFaces(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestDetectFacesNumericCoordinates(t *testing.T) {
	// Some deployments return plain numbers instead of strings.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"results":[{"faceDetection":{"faces":[
			{"boundingBox":{"vertices":[
				{"x":1,"y":2},{"x":3,"y":2},{"x":3,"y":4},{"x":1,"y":4}
			]}}
		]}}]}]}`))
	}))
	defer server.Close()

	faces, err := newTestClient(server.URL).DetectFaces(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, [4]models.Point{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 4}}, faces[0])
}
