package models

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// taskFieldCount is bucket + object + four coordinate pairs.
const taskFieldCount = 10

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Task describes one detected face for the crop worker: the source object
// and the four corners of the detected bounding quadrilateral, in the order
// the vision API returned them.
type Task struct {
	Bucket   string
	Object   string
	Vertices [4]Point
}

// Encode renders the task in its wire form:
// "bucket;object;x1;y1;x2;y2;x3;y3;x4;y4".
func (t Task) Encode() string {
	var sb strings.Builder
	sb.WriteString(t.Bucket)
	sb.WriteByte(';')
	sb.WriteString(t.Object)
	for _, v := range t.Vertices {
		fmt.Fprintf(&sb, ";%d;%d", v.X, v.Y)
	}
	return sb.String()
}

// ParseTask decodes the semicolon wire form produced by Encode.
func ParseTask(s string) (Task, error) {
	parts := strings.Split(s, ";")
	if len(parts) != taskFieldCount {
		return Task{}, fmt.Errorf("task has %d fields, want %d", len(parts), taskFieldCount)
	}

	t := Task{Bucket: parts[0], Object: parts[1]}
	for i := 0; i < 4; i++ {
		x, err := strconv.Atoi(parts[2+i*2])
		if err != nil {
			return Task{}, fmt.Errorf("parse x of vertex %d: %w", i, err)
		}
		y, err := strconv.Atoi(parts[3+i*2])
		if err != nil {
			return Task{}, fmt.Errorf("parse y of vertex %d: %w", i, err)
		}
		t.Vertices[i] = Point{X: x, Y: y}
	}
	return t, nil
}

// CropRect returns the axis-aligned crop rectangle spanned by vertices 0
// and 2 (the opposite corners of the quadrilateral). Vertices 1 and 3 are
// ignored, matching the behavior this pipeline has always had.
func (t Task) CropRect() image.Rectangle {
	return image.Rect(t.Vertices[0].X, t.Vertices[0].Y, t.Vertices[2].X, t.Vertices[2].Y)
}
