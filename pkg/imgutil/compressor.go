package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

const mimeJPEG = "image/jpeg"

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkForUpload はアップロード前の入力画像をJPEGに再エンコードします。
// quality が 0 以下、デコード不可、または小さくならない場合は元のデータと MIME をそのまま返します。
func ShrinkForUpload(data []byte, mimeType string, quality int) ([]byte, string) {
	if quality <= 0 {
		return data, mimeType
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return data, mimeType
	}
	return compressed, mimeJPEG
}
