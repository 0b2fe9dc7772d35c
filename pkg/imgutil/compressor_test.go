package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

// テスト用のダミー画像（10x10の赤い正方形）を作成するヘルパー
func createDummyImageData(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}

	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("正常なPNG画像をJPEGに圧縮できること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png")

		got, err := CompressToJPEG(pngData, 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		invalidData := []byte("this is not an image")
		_, err := CompressToJPEG(invalidData, 75)
		if err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyImageData(t, "png")

		highQuality, _ := CompressToJPEG(input, 100)
		lowQuality, _ := CompressToJPEG(input, 10)

		if len(lowQuality) >= len(highQuality) {
			t.Errorf("low quality size (%d) should be smaller than high quality size (%d)", len(lowQuality), len(highQuality))
		}
	})
}

func TestShrinkForUpload(t *testing.T) {
	pngData := createDummyImageData(t, "png")

	t.Run("quality が 0 の場合は何もしない", func(t *testing.T) {
		got, mimeType := ShrinkForUpload(pngData, "image/png", 0)
		if !bytes.Equal(got, pngData) || mimeType != "image/png" {
			t.Error("compression should be disabled")
		}
	})

	t.Run("デコードできないデータは元のまま返す", func(t *testing.T) {
		raw := []byte("not an image")
		got, mimeType := ShrinkForUpload(raw, "image/webp", 75)
		if !bytes.Equal(got, raw) || mimeType != "image/webp" {
			t.Error("undecodable data should be passed through")
		}
	})

	t.Run("大きな画像はJPEGに置き換わる", func(t *testing.T) {
		// ノイズ画像はPNGでは縮まないがJPEGでは十分に縮む
		rng := rand.New(rand.NewSource(1))
		img := image.NewRGBA(image.Rect(0, 0, 256, 256))
		rng.Read(img.Pix)
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, img); err != nil {
			t.Fatal(err)
		}

		got, mimeType := ShrinkForUpload(buf.Bytes(), "image/png", 50)
		if mimeType != "image/jpeg" {
			t.Fatalf("expected image/jpeg, got %s", mimeType)
		}
		if len(got) >= buf.Len() {
			t.Errorf("expected smaller output: %d >= %d", len(got), buf.Len())
		}
	})
}
