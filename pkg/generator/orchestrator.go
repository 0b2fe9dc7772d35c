package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/imgutil"
)

// ViewOrchestrator は1つの試着リクエストを4視点の独立した生成タスクに分割し、
// 並列に実行して結果をまとめます。リクエスト間で状態は持ちません。
type ViewOrchestrator struct {
	submitter ImageTaskSubmitter
	logger    *zap.Logger
}

// NewViewOrchestrator は ViewOrchestrator を初期化します。logger が nil の場合はログを出しません。
func NewViewOrchestrator(submitter ImageTaskSubmitter, logger *zap.Logger) (*ViewOrchestrator, error) {
	if submitter == nil {
		return nil, fmt.Errorf("submitter (ImageTaskSubmitter) is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewOrchestrator{
		submitter: submitter,
		logger:    logger.With(zap.String("component", "view_orchestrator")),
	}, nil
}

// Generate は4視点を生成し、1つでも失敗すれば全体を失敗として *domain.GenerationError を返します。
func (o *ViewOrchestrator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedViewSet, error) {
	outcome, err := o.GenerateEach(ctx, req)
	if err != nil {
		return nil, err
	}
	return outcome.ViewSet()
}

// GenerateEach は4視点を並列に生成し、視点ごとの成否を返します。
// 入力が不正な場合はプロバイダを呼ばずに domain.ErrInvalidInput を返します。
func (o *ViewOrchestrator) GenerateEach(ctx context.Context, req domain.GenerationRequest) (*domain.ViewOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tasks := BuildTasks(req)
	o.logger.Info("試着ビューの生成を開始します",
		zap.Int("tasks", len(tasks)),
		zap.Int("person_bytes", req.Person.Size()),
		zap.Int("product_bytes", req.Product.Size()),
		zap.Bool("has_instructions", req.Instructions != ""))

	started := time.Now()
	results := make([]domain.ViewResult, len(tasks))

	// 1視点の失敗で他をキャンセルしないよう、コンテキスト無しの Group を使う
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = o.runTask(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	outcome, err := domain.NewViewOutcome(results)
	if err != nil {
		return nil, fmt.Errorf("結果の集約に失敗しました: %w", err)
	}

	if genErr := outcome.Err(); genErr != nil {
		o.logger.Warn("一部の視点の生成に失敗しました",
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(genErr))
	} else {
		o.logger.Info("試着ビューの生成が完了しました", zap.Duration("elapsed", time.Since(started)))
	}
	return outcome, nil
}

func (o *ViewOrchestrator) runTask(ctx context.Context, task domain.GenerationTask) domain.ViewResult {
	start := time.Now()
	asset, err := o.submitter.SubmitImageTask(ctx, task)
	result := domain.ViewResult{Angle: task.Angle, Duration: time.Since(start)}

	switch {
	case err != nil:
		if !domain.IsClassified(err) {
			err = fmt.Errorf("%w: %w", domain.ErrProviderCallFailed, err)
		}
	case asset == nil || asset.IsEmpty():
		err = domain.ErrMissingImageData
	}
	if err != nil {
		o.logger.Warn("視点の生成に失敗しました",
			zap.Stringer("angle", task.Angle),
			zap.Duration("duration", result.Duration),
			zap.Error(err))
		result.Err = &domain.AngleError{Angle: task.Angle, Err: err}
		return result
	}

	mimeType := asset.MIMEType()
	if mimeType == "" {
		mimeType = imgutil.DefaultOutputMIME
	}
	named := domain.NewImageAsset(asset.Data(), mimeType, OutputName(task.Angle, mimeType))
	result.Asset = &named

	o.logger.Debug("視点の生成が完了しました",
		zap.Stringer("angle", task.Angle),
		zap.Duration("duration", result.Duration),
		zap.Int("bytes", named.Size()))
	return result
}
