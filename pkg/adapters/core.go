package adapters

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/imgutil"
)

// ImageOutput はプロバイダのレスポンスから取り出した画像です。
type ImageOutput struct {
	Data     []byte
	MimeType string
}

// ToPart は ImageAsset を genai.Part (InlineData) に変換します。
// quality が 1 以上なら送信前にJPEGへ再圧縮します。
func ToPart(asset domain.ImageAsset, quality int) *genai.Part {
	mimeType := imgutil.ResolveMIME(asset.MIMEType(), asset.Data())
	data, mimeType := imgutil.ShrinkForUpload(asset.Data(), mimeType, quality)
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}

// ParseToResponse は Gemini のレスポンスを解析し、最初の画像パーツを ImageOutput に変換します。
func ParseToResponse(resp *genai.GenerateContentResponse) (*ImageOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no candidates returned", domain.ErrEmptyResponse)
	}

	// 現在の仕様では、Geminiからの最初の候補 (Candidate) のみを利用する。
	candidate := resp.Candidates[0]

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if isAbnormalFinish(candidate.FinishReason) {
			return nil, fmt.Errorf("%w: no content parts (FinishReason: %s)", domain.ErrEmptyResponse, candidate.FinishReason)
		}
		return nil, fmt.Errorf("%w: no content parts", domain.ErrEmptyResponse)
	}

	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &ImageOutput{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			}, nil
		}
	}

	// 安全フィルター等によるブロックの確認
	if isAbnormalFinish(candidate.FinishReason) {
		return nil, fmt.Errorf("%w: 画像生成が異常終了しました (FinishReason: %s)", domain.ErrMissingImageData, candidate.FinishReason)
	}
	return nil, fmt.Errorf("%w: response parts contained no inline image", domain.ErrMissingImageData)
}

func isAbnormalFinish(reason genai.FinishReason) bool {
	switch reason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return false
	}
	return true
}
