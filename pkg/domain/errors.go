package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput は人物画像または商品画像が欠けている・不正な場合のエラーです。
	ErrInvalidInput = errors.New("invalid input")
	// ErrProviderCallFailed は生成プロバイダ呼び出し自体の失敗（通信・認証・クォータ等）です。
	ErrProviderCallFailed = errors.New("provider call failed")
	// ErrEmptyResponse は候補もパーツも返らなかった場合のエラーです。
	ErrEmptyResponse = errors.New("empty response")
	// ErrMissingImageData はパーツはあるが画像データを含まなかった場合のエラーです。
	ErrMissingImageData = errors.New("missing image data")
)

// AngleError は特定の視点の生成失敗を表します。
type AngleError struct {
	Angle ViewAngle
	Err   error
}

func (e *AngleError) Error() string {
	return fmt.Sprintf("%s view: %v", e.Angle, e.Err)
}

func (e *AngleError) Unwrap() error { return e.Err }

// GenerationError は1つ以上の視点が失敗したことを示す集約エラーです。
// Failures は視点の固定順に並びます。
type GenerationError struct {
	Failures []*AngleError
}

func (e *GenerationError) Error() string {
	names := make([]string, len(e.Failures))
	details := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Angle.String()
		details[i] = f.Error()
	}
	return fmt.Sprintf("view generation failed for %s: %s",
		strings.Join(names, ", "), strings.Join(details, "; "))
}

// Unwrap により errors.Is で各視点の原因まで辿れます。
func (e *GenerationError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Angles は失敗した視点の一覧です。
func (e *GenerationError) Angles() []ViewAngle {
	angles := make([]ViewAngle, len(e.Failures))
	for i, f := range e.Failures {
		angles[i] = f.Angle
	}
	return angles
}

// IsClassified は err が既知のエラー分類のいずれかに該当するかを返します。
func IsClassified(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrProviderCallFailed) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrMissingImageData)
}
