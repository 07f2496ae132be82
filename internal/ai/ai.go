package ai

import "context"

// Analyzer submits a normalized document image to a multimodal completion
// service and returns the raw text of the model response.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageDataURL string) (string, error)
}
