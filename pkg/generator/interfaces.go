package generator

import (
	"context"

	"github.com/shouni/tryon-view-kit/pkg/domain"
)

// ImageTaskSubmitter は1視点分の生成タスクを外部プロバイダに送信する窓口です。
// 実装は返却レスポンスから最初の画像パーツを取り出して返します。
type ImageTaskSubmitter interface {
	SubmitImageTask(ctx context.Context, task domain.GenerationTask) (*domain.ImageAsset, error)
}

// ViewGenerator はビジネスロジック層が利用する統合窓口です。
type ViewGenerator interface {
	// Generate は4視点すべてが成功した場合のみ結果を返します。
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedViewSet, error)
	// GenerateEach は視点ごとの成否をそのまま返します。
	GenerateEach(ctx context.Context, req domain.GenerationRequest) (*domain.ViewOutcome, error)
}
