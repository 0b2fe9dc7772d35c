package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shouni/tryon-view-kit/internal/metrics"
	"github.com/shouni/tryon-view-kit/internal/repository"
	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/generator"
)

const (
	outcomeSuccess = "success"
	outcomePartial = "partial"
	outcomeFailed  = "failed"
	outcomeInvalid = "invalid"
)

// TryOnResult は1リクエスト分の生成結果です。
type TryOnResult struct {
	ID          string
	Outcome     *domain.ViewOutcome
	StorageKeys map[domain.ViewAngle]string
}

type TryOnService interface {
	// GenerateViews は4視点を生成します。allowPartial が false の場合は1視点でも失敗すればエラーです。
	GenerateViews(ctx context.Context, req domain.GenerationRequest, allowPartial bool) (*TryOnResult, error)
}

type tryOnService struct {
	generator generator.ViewGenerator
	store     repository.ViewStore // nil なら保存しない
	prefix    string
	metrics   *metrics.Collector
	log       *zap.Logger
}

// NewTryOnService は依存関係を注入してサービスを作成します。store は nil を許容します。
func NewTryOnService(gen generator.ViewGenerator, store repository.ViewStore, prefix string, collector *metrics.Collector, log *zap.Logger) (TryOnService, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if collector == nil {
		return nil, fmt.Errorf("metrics collector is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &tryOnService{
		generator: gen,
		store:     store,
		prefix:    prefix,
		metrics:   collector,
		log:       log,
	}, nil
}

func (s *tryOnService) GenerateViews(ctx context.Context, req domain.GenerationRequest, allowPartial bool) (*TryOnResult, error) {
	id := uuid.New().String()
	log := s.log.With(zap.String("request_id", id))

	outcome, err := s.generator.GenerateEach(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			s.metrics.RecordTryOn(outcomeInvalid)
		} else {
			s.metrics.RecordTryOn(outcomeFailed)
		}
		log.Warn("Try-on generation rejected", zap.Error(err))
		return nil, err
	}

	for _, r := range outcome.Results() {
		s.metrics.RecordView(r.Angle.String(), r.OK(), r.Duration)
	}

	succeeded := outcome.Succeeded()
	if genErr := outcome.Err(); genErr != nil {
		if !allowPartial || len(succeeded) == 0 {
			s.metrics.RecordTryOn(outcomeFailed)
			log.Error("Try-on generation failed", zap.Error(genErr))
			return nil, genErr
		}
		s.metrics.RecordTryOn(outcomePartial)
		log.Warn("Try-on generation partially succeeded",
			zap.Int("succeeded", len(succeeded)),
			zap.Error(genErr))
	} else {
		s.metrics.RecordTryOn(outcomeSuccess)
		log.Info("Try-on generation succeeded")
	}

	return &TryOnResult{
		ID:          id,
		Outcome:     outcome,
		StorageKeys: s.storeViews(ctx, log, id, succeeded),
	}, nil
}

// storeViews は成功した視点を保存します。保存の失敗は生成結果そのものを失敗にしません。
func (s *tryOnService) storeViews(ctx context.Context, log *zap.Logger, id string, views map[domain.ViewAngle]domain.ImageAsset) map[domain.ViewAngle]string {
	keys := make(map[domain.ViewAngle]string, len(views))
	if s.store == nil {
		return keys
	}

	for _, angle := range domain.AllViewAngles() {
		asset, ok := views[angle]
		if !ok {
			continue
		}
		key := path.Join(s.prefix, id, asset.Name())
		stored, err := s.store.SaveView(ctx, key, asset)
		s.metrics.RecordStoredView(err == nil)
		if err != nil {
			log.Warn("Failed to store generated view",
				zap.Stringer("angle", angle),
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		keys[angle] = stored
	}
	return keys
}
