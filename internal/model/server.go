// Package model wraps the pre-trained ONNX waste classifier behind a
// single Predict call.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Runtime owns an ONNX session with fixed input and output tensors. The
// tensors are reused across calls, so Predict serializes on a mutex.
type Runtime struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// Load initializes the ONNX environment, reads the model metadata, and
// builds a session. Callers must Close the returned Runtime.
func Load(modelPath, metadataPath string) (*Runtime, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if len(metadata.Classes) == 0 {
		return nil, fmt.Errorf("metadata lists no classes")
	}

	inputShape := ort.NewShape(metadata.InputShape...)
	outputShape := ort.NewShape(metadata.OutputShape...)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Runtime{
		session:      session,
		Metadata:     metadata,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Predict runs one inference pass and returns a copy of the model's
// probability vector, one entry per class in metadata order.
func (r *Runtime) Predict(input []float32) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in := r.inputTensor.GetData()
	if len(input) != len(in) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(in), len(input))
	}
	copy(in, input)

	if err := r.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := r.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

func (r *Runtime) Close() {
	if r.inputTensor != nil {
		r.inputTensor.Destroy()
	}
	if r.outputTensor != nil {
		r.outputTensor.Destroy()
	}
	if r.session != nil {
		r.session.Destroy()
	}
	ort.DestroyEnvironment()
}
