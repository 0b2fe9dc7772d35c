package imgutil

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL は画像を "data:<mime>;base64,..." 形式の文字列にします。
func EncodeDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultOutputMIME
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL は data URL もしくはプレフィックス無しの base64 文字列をデコードします。
// data URL に MIME が含まれていればそれを返し、無ければ空文字を返します。
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("empty data")
	}

	var mimeType string
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, body, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URL: missing comma")
		}
		meta := strings.TrimPrefix(header, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("malformed data URL: only base64 payloads are supported")
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// 末尾のパディングが省略されている入力も受け付ける
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr != nil {
			return nil, "", fmt.Errorf("base64デコードに失敗しました: %w", err)
		}
	}
	return data, mimeType, nil
}
