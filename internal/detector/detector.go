// Package detector runs face detection on newly uploaded photos and fans the
// results out as one crop task per detected face.
package detector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/your-org/facetag/internal/models"
	"github.com/your-org/facetag/internal/observability"
)

// ObjectFetcher reads an uploaded photo from the object store.
type ObjectFetcher interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// FaceDetector finds face bounding quadrilaterals in an image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, imageData []byte) ([][4]models.Point, error)
}

// TaskPublisher enqueues crop tasks for the crop worker.
type TaskPublisher interface {
	PublishTask(ctx context.Context, task models.Task) error
}

type Detector struct {
	objects  ObjectFetcher
	vision   FaceDetector
	producer TaskPublisher
}

func New(objects ObjectFetcher, vision FaceDetector, producer TaskPublisher) *Detector {
	return &Detector{objects: objects, vision: vision, producer: producer}
}

// HandleUpload fetches the uploaded photo, detects faces, and publishes one
// task per face. A photo with no faces publishes nothing. Any failure
// propagates so the queue redelivers the notification.
func (d *Detector) HandleUpload(ctx context.Context, ev models.UploadEvent) error {
	data, err := d.objects.GetObject(ctx, ev.Bucket, ev.Object)
	if err != nil {
		return fmt.Errorf("fetch upload: %w", err)
	}

	faces, err := d.vision.DetectFaces(ctx, data)
	if err != nil {
		return fmt.Errorf("detect faces: %w", err)
	}

	for _, box := range faces {
		task := models.Task{
			Bucket:   ev.Bucket,
			Object:   ev.Object,
			Vertices: box,
		}
		if err := d.producer.PublishTask(ctx, task); err != nil {
			return fmt.Errorf("publish task: %w", err)
		}
	}

	observability.UploadsProcessed.Inc()
	observability.FacesDetected.Add(float64(len(faces)))

	slog.Info("processed upload", "bucket", ev.Bucket, "object", ev.Object, "faces", len(faces))
	return nil
}
