package models

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskEncode(t *testing.T) {
	task := Task{
		Bucket: "b1",
		Object: "o1",
		Vertices: [4]Point{
			{X: 10, Y: 20},
			{X: 50, Y: 20},
			{X: 50, Y: 80},
			{X: 10, Y: 80},
		},
	}

	assert.Equal(t, "b1;o1;10;20;50;20;50;80;10;80", task.Encode())
}

func TestParseTaskRoundTrip(t *testing.T) {
	task := Task{
		Bucket: "uploads",
		Object: "vacation/img_0042.jpg",
		Vertices: [4]Point{
			{X: 133, Y: 245},
			{X: 412, Y: 245},
			{X: 412, Y: 590},
			{X: 133, Y: 590},
		},
	}

	parsed, err := ParseTask(task.Encode())
	require.NoError(t, err)
	assert.Equal(t, task, parsed)
}

func TestParseTaskErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too few fields", "b1;o1;10;20"},
		{"too many fields", "b1;o1;10;20;50;20;50;80;10;80;99"},
		{"non-numeric coordinate", "b1;o1;10;twenty;50;20;50;80;10;80"},
		{"float coordinate", "b1;o1;10.5;20;50;20;50;80;10;80"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTask(tc.input)
			assert.Error(t, err)
		})
	}
}

// The crop rectangle is spanned by vertices 0 and 2; vertices 1 and 3 are
// ignored. Pin that down so a reordering never slips in silently.
func TestTaskCropRect(t *testing.T) {
	task, err := ParseTask("b1;o1;10;20;50;20;50;80;10;80")
	require.NoError(t, err)

	assert.Equal(t, image.Rect(10, 20, 50, 80), task.CropRect())
}

func TestTaskCropRectIgnoresMiddleVertices(t *testing.T) {
	// Same corners 0 and 2, garbage in 1 and 3: identical rectangle.
	a, err := ParseTask("b1;o1;10;20;999;999;50;80;777;777")
	require.NoError(t, err)
	b, err := ParseTask("b1;o1;10;20;0;0;50;80;0;0")
	require.NoError(t, err)

	assert.Equal(t, a.CropRect(), b.CropRect())
}
