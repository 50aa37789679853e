// Package classify turns an uploaded image into a waste-category
// prediction with ranked alternatives.
package classify

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"greenguide/internal/guidance"
)

var (
	// ErrModelUnavailable is returned when classification is requested
	// but no model was loaded at startup.
	ErrModelUnavailable = errors.New("classification model is not loaded")
	// ErrInvalidInput is returned when a request carries no usable image.
	ErrInvalidInput = errors.New("no image provided")
)

const (
	// Alternatives below or at this probability are dropped (strictly
	// greater than passes).
	altThreshold    = 0.05
	maxAlternatives = 2
)

// Predictor runs one inference pass over a flattened NHWC [0,1] tensor
// and returns a probability vector in class order.
type Predictor interface {
	Predict(input []float32) ([]float32, error)
}

// Alternative is a lower-confidence secondary prediction.
type Alternative struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Result is one classification outcome. It is built per request and never
// persisted.
type Result struct {
	Category     string        `json:"category"`
	Confidence   float64       `json:"confidence"`
	Alternatives []Alternative `json:"alternatives"`
	GuidanceLink string        `json:"guidance_link"`
}

// Classifier adapts the raw model call to the guidance domain: it owns
// preprocessing, top-k selection, and the mapping from class index to
// category name. A nil predictor means the model failed to load; every
// call then fails with ErrModelUnavailable instead of crashing.
type Classifier struct {
	predictor Predictor
	classes   []string
	imageSize int
	log       *zap.Logger
}

func New(predictor Predictor, classes []string, imageSize int, log *zap.Logger) *Classifier {
	return &Classifier{predictor: predictor, classes: classes, imageSize: imageSize, log: log}
}

// Ready reports whether a model is loaded.
func (c *Classifier) Ready() bool { return c.predictor != nil }

// Classify resizes the image to the model's input size, scales pixels to
// [0,1], runs the model, and returns the top prediction plus up to two
// alternatives above the confidence threshold.
func (c *Classifier) Classify(img image.Image) (*Result, error) {
	if c.predictor == nil {
		return nil, ErrModelUnavailable
	}
	if img == nil {
		return nil, ErrInvalidInput
	}

	probs, err := c.predictor.Predict(c.preprocess(img))
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(probs) < len(c.classes) {
		return nil, fmt.Errorf("model returned %d probabilities for %d classes", len(probs), len(c.classes))
	}

	top := 0
	for i := range c.classes {
		if probs[i] > probs[top] {
			top = i
		}
	}

	result := &Result{
		Category:     c.classes[top],
		Confidence:   float64(probs[top]),
		Alternatives: c.alternatives(probs, top),
		GuidanceLink: guidance.URL(c.classes[top]),
	}

	c.log.Debug("classified image",
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence),
		zap.Int("alternatives", len(result.Alternatives)))
	return result, nil
}

// alternatives picks the next-highest classes after the top prediction,
// in descending probability, keeping at most two and only those strictly
// above the threshold.
func (c *Classifier) alternatives(probs []float32, top int) []Alternative {
	order := make([]int, 0, len(c.classes))
	for i := range c.classes {
		if i != top {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] > probs[order[b]] })

	var alts []Alternative
	for _, idx := range order {
		if len(alts) == maxAlternatives {
			break
		}
		if float64(probs[idx]) > altThreshold {
			alts = append(alts, Alternative{Category: c.classes[idx], Confidence: float64(probs[idx])})
		}
	}
	return alts
}

// preprocess resizes to the square model input and flattens to NHWC with
// each channel scaled to [0,1].
func (c *Classifier) preprocess(img image.Image) []float32 {
	size := uint(c.imageSize)
	resized := resize.Resize(size, size, img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]float32, width*height*3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
			i += 3
		}
	}
	return data
}
