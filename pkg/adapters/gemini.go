package adapters

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/utils"
)

// DefaultModel は試着画像の生成に使う既定のモデルです。
const DefaultModel = "gemini-2.5-flash-image"

const responseModalityImage = "IMAGE"

// ContentGenerator は genai の Models が満たす最小限のインターフェースです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient は Gemini API バックエンドの genai クライアントを作成します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// GeminiTaskSubmitter は1視点分の生成タスクを Gemini に送るアダプターです。
type GeminiTaskSubmitter struct {
	models          ContentGenerator
	model           string
	compressQuality int // 0 以下なら入力画像をそのまま送る
	logger          *zap.Logger
}

// NewGeminiTaskSubmitter は依存関係を注入してアダプターを初期化します。
func NewGeminiTaskSubmitter(models ContentGenerator, model string, compressQuality int, logger *zap.Logger) (*GeminiTaskSubmitter, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ContentGenerator) is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiTaskSubmitter{
		models:          models,
		model:           model,
		compressQuality: compressQuality,
		logger:          logger.With(zap.String("component", "gemini_submitter"), zap.String("model", model)),
	}, nil
}

// SubmitImageTask は画像パーツとプロンプトをまとめて送信し、最初の画像パーツを返します。
func (s *GeminiTaskSubmitter) SubmitImageTask(ctx context.Context, task domain.GenerationTask) (*domain.ImageAsset, error) {
	parts := make([]*genai.Part, 0, len(task.Images)+1)
	for _, img := range task.Images {
		parts = append(parts, ToPart(img, s.compressQuality))
	}
	parts = append(parts, genai.NewPartFromText(task.Prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	s.logger.Debug("Geminiに画像生成をリクエストします",
		zap.Stringer("angle", task.Angle),
		zap.Int("parts", len(parts)))

	resp, err := s.models.GenerateContent(ctx, s.model, contents, s.generateConfig(task))
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini %s視点の生成エラー: %w", domain.ErrProviderCallFailed, task.Angle, err)
	}

	out, err := ParseToResponse(resp)
	if err != nil {
		return nil, err
	}

	asset := domain.NewImageAsset(out.Data, out.MimeType, "")
	return &asset, nil
}

func (s *GeminiTaskSubmitter) generateConfig(task domain.GenerationTask) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{responseModalityImage},
		Seed:               utils.SeedToInt32Ptr(task.Seed),
	}
	if task.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: task.AspectRatio}
	}
	return cfg
}
