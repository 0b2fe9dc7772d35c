package adapters

import (
	"context"

	"google.golang.org/genai"
)

// mockModels は ContentGenerator のテスト用モックです。
type mockModels struct {
	generateFunc func(model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(model, contents, config)
	}
	return nil, nil
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{Text: "here you go"},
					{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}
