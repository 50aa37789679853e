package classify

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePredictor struct {
	probs []float32
	err   error
	input []float32
}

func (f *fakePredictor) Predict(input []float32) ([]float32, error) {
	f.input = input
	return f.probs, f.err
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img
}

var testClasses = []string{"A", "B", "C", "D", "E"}

func TestClassify(t *testing.T) {
	t.Run("top prediction with one alternative", func(t *testing.T) {
		p := &fakePredictor{probs: []float32{0.7, 0.2, 0.05, 0.03, 0.02}}
		c := New(p, testClasses, 224, zap.NewNop())

		result, err := c.Classify(testImage())
		require.NoError(t, err)

		assert.Equal(t, "A", result.Category)
		assert.InDelta(t, 0.7, result.Confidence, 1e-6)
		// C sits exactly on the 0.05 boundary; the threshold is strict.
		require.Len(t, result.Alternatives, 1)
		assert.Equal(t, "B", result.Alternatives[0].Category)
		assert.InDelta(t, 0.2, result.Alternatives[0].Confidence, 1e-6)
		assert.Equal(t, "/guidance/A", result.GuidanceLink)
	})

	t.Run("alternatives exclude the top class", func(t *testing.T) {
		p := &fakePredictor{probs: []float32{0.3, 0.25, 0.2, 0.15, 0.1}}
		c := New(p, testClasses, 224, zap.NewNop())

		result, err := c.Classify(testImage())
		require.NoError(t, err)

		require.Len(t, result.Alternatives, 2)
		for _, alt := range result.Alternatives {
			assert.NotEqual(t, result.Category, alt.Category)
			assert.Greater(t, alt.Confidence, 0.05)
		}
		assert.Equal(t, "B", result.Alternatives[0].Category)
		assert.Equal(t, "C", result.Alternatives[1].Category)
	})

	t.Run("no alternatives above threshold", func(t *testing.T) {
		p := &fakePredictor{probs: []float32{0.9, 0.04, 0.03, 0.02, 0.01}}
		c := New(p, testClasses, 224, zap.NewNop())

		result, err := c.Classify(testImage())
		require.NoError(t, err)
		assert.Empty(t, result.Alternatives)
	})

	t.Run("missing model fails before any tensor work", func(t *testing.T) {
		c := New(nil, testClasses, 224, zap.NewNop())
		_, err := c.Classify(testImage())
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("nil image is invalid input", func(t *testing.T) {
		c := New(&fakePredictor{}, testClasses, 224, zap.NewNop())
		_, err := c.Classify(nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("predictor errors are wrapped", func(t *testing.T) {
		p := &fakePredictor{err: errors.New("session gone")}
		c := New(p, testClasses, 224, zap.NewNop())
		_, err := c.Classify(testImage())
		assert.ErrorContains(t, err, "session gone")
	})

	t.Run("short probability vector is rejected", func(t *testing.T) {
		p := &fakePredictor{probs: []float32{0.5, 0.5}}
		c := New(p, testClasses, 224, zap.NewNop())
		_, err := c.Classify(testImage())
		assert.Error(t, err)
	})

	t.Run("guidance link escapes category names", func(t *testing.T) {
		p := &fakePredictor{probs: []float32{1, 0, 0, 0, 0}}
		c := New(p, []string{"Plastic Waste", "B", "C", "D", "E"}, 224, zap.NewNop())
		result, err := c.Classify(testImage())
		require.NoError(t, err)
		assert.Equal(t, "/guidance/Plastic%20Waste", result.GuidanceLink)
	})
}

func TestPreprocess(t *testing.T) {
	p := &fakePredictor{probs: []float32{1, 0, 0, 0, 0}}
	c := New(p, testClasses, 224, zap.NewNop())

	_, err := c.Classify(testImage())
	require.NoError(t, err)

	t.Run("tensor is NHWC 224x224x3", func(t *testing.T) {
		assert.Len(t, p.input, 224*224*3)
	})

	t.Run("pixels scaled to the unit interval", func(t *testing.T) {
		for i, v := range p.input {
			require.GreaterOrEqual(t, v, float32(0), "index %d", i)
			require.LessOrEqual(t, v, float32(1), "index %d", i)
		}
	})

	t.Run("channel order is RGB", func(t *testing.T) {
		// The source image is solid red.
		assert.InDelta(t, 1.0, p.input[0], 1e-3)
		assert.InDelta(t, 0.0, p.input[1], 1e-3)
		assert.InDelta(t, 0.0, p.input[2], 1e-3)
	})
}
