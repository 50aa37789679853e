package model

// Metadata describes the exported waste-classification model: tensor
// shapes, the class list in training order, and the square input image
// size. It ships as a JSON file next to the .onnx file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}
