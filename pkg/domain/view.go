package domain

import (
	"fmt"
	"time"
)

// GenerationRequest は1回の試着生成要求です。リクエストごとに作られ、保存されません。
type GenerationRequest struct {
	Person       ImageAsset
	Product      ImageAsset
	Instructions string // 空でもよい
	AspectRatio  string // 空の場合はモデルの既定値
	Seed         *int64 // nil でランダム
}

// Validate は生成前の前提条件を確認します。
func (r GenerationRequest) Validate() error {
	if err := r.Person.Validate(); err != nil {
		return fmt.Errorf("%w: person image: %v", ErrInvalidInput, err)
	}
	if err := r.Product.Validate(); err != nil {
		return fmt.Errorf("%w: product image: %v", ErrInvalidInput, err)
	}
	return nil
}

// GenerationTask は1視点分のプロバイダへのリクエストです。
type GenerationTask struct {
	Angle       ViewAngle
	Images      []ImageAsset // 人物、商品の順
	Prompt      string
	AspectRatio string
	Seed        *int64
}

// ViewResult は1視点分の結果で、Asset か Err のどちらか一方を持ちます。
type ViewResult struct {
	Angle    ViewAngle
	Asset    *ImageAsset
	Err      error
	Duration time.Duration
}

// OK は画像の生成に成功したかを返します。
func (r ViewResult) OK() bool {
	return r.Err == nil && r.Asset != nil && !r.Asset.IsEmpty()
}

// ViewOutcome は全視点分の ViewResult を保持します。部分的な成功もそのまま表現します。
type ViewOutcome struct {
	results [ViewAngleCount]ViewResult
}

// NewViewOutcome は各視点ちょうど1件の結果から ViewOutcome を組み立てます。
func NewViewOutcome(results []ViewResult) (*ViewOutcome, error) {
	var (
		out  ViewOutcome
		seen [ViewAngleCount]bool
	)
	for _, r := range results {
		if !r.Angle.Valid() {
			return nil, fmt.Errorf("result for invalid angle %d", int(r.Angle))
		}
		if seen[r.Angle] {
			return nil, fmt.Errorf("duplicate result for %s view", r.Angle)
		}
		if r.Err == nil && (r.Asset == nil || r.Asset.IsEmpty()) {
			r.Err = &AngleError{Angle: r.Angle, Err: ErrMissingImageData}
		}
		seen[r.Angle] = true
		out.results[r.Angle] = r
	}
	for _, a := range AllViewAngles() {
		if !seen[a] {
			return nil, fmt.Errorf("missing result for %s view", a)
		}
	}
	return &out, nil
}

// Result は指定視点の結果を返します。
func (o *ViewOutcome) Result(angle ViewAngle) ViewResult {
	return o.results[angle]
}

// Results は固定順の全結果を返します。
func (o *ViewOutcome) Results() []ViewResult {
	out := make([]ViewResult, ViewAngleCount)
	copy(out, o.results[:])
	return out
}

// Succeeded は成功した視点の画像だけを返します。
func (o *ViewOutcome) Succeeded() map[ViewAngle]ImageAsset {
	views := make(map[ViewAngle]ImageAsset, ViewAngleCount)
	for _, r := range o.results {
		if r.OK() {
			views[r.Angle] = *r.Asset
		}
	}
	return views
}

// Err は失敗した視点があれば *GenerationError を、なければ nil を返します。
func (o *ViewOutcome) Err() error {
	var failures []*AngleError
	for _, r := range o.results {
		if r.Err == nil {
			continue
		}
		ae, ok := r.Err.(*AngleError)
		if !ok {
			ae = &AngleError{Angle: r.Angle, Err: r.Err}
		}
		failures = append(failures, ae)
	}
	if len(failures) == 0 {
		return nil
	}
	return &GenerationError{Failures: failures}
}

// ViewSet は全視点が成功していれば GeneratedViewSet を返します（all-or-nothing）。
func (o *ViewOutcome) ViewSet() (*GeneratedViewSet, error) {
	if err := o.Err(); err != nil {
		return nil, err
	}
	return NewGeneratedViewSet(o.Succeeded())
}

// GeneratedViewSet は4視点すべての画像を保持する成功結果です。
type GeneratedViewSet struct {
	views [ViewAngleCount]ImageAsset
}

// NewGeneratedViewSet は全視点が揃い、空の画像も余分なキーも無いことを検証します。
func NewGeneratedViewSet(views map[ViewAngle]ImageAsset) (*GeneratedViewSet, error) {
	if len(views) != ViewAngleCount {
		return nil, fmt.Errorf("view set must contain exactly %d views, got %d", ViewAngleCount, len(views))
	}
	var set GeneratedViewSet
	for angle, asset := range views {
		if !angle.Valid() {
			return nil, fmt.Errorf("view set contains invalid angle %d", int(angle))
		}
		if asset.IsEmpty() {
			return nil, fmt.Errorf("%s view is empty", angle)
		}
		set.views[angle] = asset
	}
	return &set, nil
}

// View は指定視点の画像を返します。
func (s *GeneratedViewSet) View(angle ViewAngle) ImageAsset {
	return s.views[angle]
}

// Views は視点から画像へのマップを新しく作って返します。
func (s *GeneratedViewSet) Views() map[ViewAngle]ImageAsset {
	out := make(map[ViewAngle]ImageAsset, ViewAngleCount)
	for _, a := range AllViewAngles() {
		out[a] = s.views[a]
	}
	return out
}
