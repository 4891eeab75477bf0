// Package vision talks to the external face-detection HTTP API. The API
// takes a base64-encoded image and returns the bounding quadrilateral of
// every face it finds; no recognition happens here.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/your-org/facetag/internal/config"
	"github.com/your-org/facetag/internal/models"
)

type Client struct {
	baseURL  string
	token    string
	folderID string
	http     *http.Client
}

func NewClient(cfg config.VisionConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		folderID: cfg.FolderID,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type analyzeRequest struct {
	FolderID     string        `json:"folderId"`
	AnalyzeSpecs []analyzeSpec `json:"analyze_specs"`
}

type analyzeSpec struct {
	Content  string    `json:"content"`
	Features []feature `json:"features"`
}

type feature struct {
	Type string `json:"type"`
}

// coord tolerates the API returning coordinates either as JSON numbers or
// as quoted strings; fields with value 0 are omitted entirely.
type coord int

func (c *coord) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parse coordinate %q: %w", data, err)
	}
	*c = coord(n)
	return nil
}

type vertex struct {
	X coord `json:"x"`
	Y coord `json:"y"`
}

type analyzeResponse struct {
	Results []struct {
		Results []struct {
			FaceDetection struct {
				Faces []struct {
					BoundingBox struct {
						Vertices []vertex `json:"vertices"`
					} `json:"boundingBox"`
				} `json:"faces"`
			} `json:"faceDetection"`
		} `json:"results"`
	} `json:"results"`
}

// DetectFaces submits the image for face detection and returns the four
// corner points of each detected face.
func (c *Client) DetectFaces(ctx context.Context, imageData []byte) ([][4]models.Point, error) {
	reqBody := analyzeRequest{
		FolderID: c.folderID,
		AnalyzeSpecs: []analyzeSpec{{
			Content:  base64.StdEncoding.EncodeToString(imageData),
			Features: []feature{{Type: "FACE_DETECTION"}},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/vision/v1/batchAnalyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call vision api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision api status %d: %s", resp.StatusCode, body)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal vision response: %w", err)
	}

	if len(parsed.Results) == 0 || len(parsed.Results[0].Results) == 0 {
		return nil, fmt.Errorf("vision response has no results")
	}

	var faces [][4]models.Point
	for _, f := range parsed.Results[0].Results[0].FaceDetection.Faces {
		if len(f.BoundingBox.Vertices) != 4 {
			return nil, fmt.Errorf("face bounding box has %d vertices, want 4", len(f.BoundingBox.Vertices))
		}
		var box [4]models.Point
		for i, v := range f.BoundingBox.Vertices {
			box[i] = models.Point{X: int(v.X), Y: int(v.Y)}
		}
		faces = append(faces, box)
	}
	return faces, nil
}
