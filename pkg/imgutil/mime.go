package imgutil

import (
	"net/http"
	"strings"
)

// DefaultOutputMIME はプロバイダが MIME を返さなかった場合に使う出力形式です。
const DefaultOutputMIME = "image/png"

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// DetectMIME はバイト列の先頭から MIME タイプを推定します。
// 画像と判定できない場合は空文字を返します。
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return ""
	}
	return mimeType
}

// ResolveMIME は申告された MIME が画像ならそれを、そうでなければ内容から推定した値を返します。
func ResolveMIME(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if strings.HasPrefix(strings.ToLower(declared), "image/") {
		return declared
	}
	return DetectMIME(data)
}

// ExtensionForMIME は MIME タイプに対応するファイル拡張子を返します。不明な場合は ".png" です。
func ExtensionForMIME(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return ".png"
}
