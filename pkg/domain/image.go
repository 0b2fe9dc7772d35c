package domain

import (
	"fmt"
	"strings"
)

// supportedMIMETypes は入力画像として受け付ける MIME タイプです。
var supportedMIMETypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
}

// IsSupportedMIMEType は Gemini に送信可能な画像 MIME タイプかどうかを返します。
func IsSupportedMIMEType(mimeType string) bool {
	_, ok := supportedMIMETypes[normalizeMIMEType(mimeType)]
	return ok
}

func normalizeMIMEType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "image/jpg" {
		return "image/jpeg"
	}
	return mimeType
}

// ImageAsset は画像バイナリと MIME タイプ、表示・ダウンロード用の名前をまとめた値です。
// 生成後は不変として扱います。Data が返すスライスを書き換えてはいけません。
type ImageAsset struct {
	data     []byte
	mimeType string
	name     string
}

// NewImageAsset はペイロードをコピーして ImageAsset を作成します。
func NewImageAsset(data []byte, mimeType, name string) ImageAsset {
	buf := make([]byte, len(data))
	copy(buf, data)
	return ImageAsset{
		data:     buf,
		mimeType: normalizeMIMEType(mimeType),
		name:     name,
	}
}

// Data は画像バイナリを返します。
func (a ImageAsset) Data() []byte { return a.data }

// MIMEType は正規化済みの MIME タイプを返します。
func (a ImageAsset) MIMEType() string { return a.mimeType }

// Name は表示・ダウンロード用の名前です。空の場合もあります。
func (a ImageAsset) Name() string { return a.name }

// Size はペイロードのバイト数です。
func (a ImageAsset) Size() int { return len(a.data) }

// IsEmpty はペイロードを持たない場合に true を返します。
func (a ImageAsset) IsEmpty() bool { return len(a.data) == 0 }

// WithName は名前だけを差し替えたコピーを返します。ペイロードは共有します。
func (a ImageAsset) WithName(name string) ImageAsset {
	a.name = name
	return a
}

// Validate は入力画像として利用可能かを検証します。
func (a ImageAsset) Validate() error {
	if a.IsEmpty() {
		return fmt.Errorf("image payload is empty")
	}
	if !IsSupportedMIMEType(a.mimeType) {
		return fmt.Errorf("unsupported MIME type %q", a.mimeType)
	}
	return nil
}
