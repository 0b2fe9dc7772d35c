package generator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/shouni/tryon-view-kit/pkg/domain"
)

// --- Mocks ---

// mockSubmitter は ImageTaskSubmitter のテスト用モックです。呼び出されたタスクを記録します。
type mockSubmitter struct {
	submitFunc func(ctx context.Context, task domain.GenerationTask) (*domain.ImageAsset, error)

	mu    sync.Mutex
	tasks []domain.GenerationTask
}

func (m *mockSubmitter) SubmitImageTask(ctx context.Context, task domain.GenerationTask) (*domain.ImageAsset, error) {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()

	if m.submitFunc != nil {
		return m.submitFunc(ctx, task)
	}
	return nil, nil
}

// promptsByAngle は記録されたタスクのプロンプトを視点ごとに返します。
func (m *mockSubmitter) promptsByAngle() map[domain.ViewAngle]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.ViewAngle]string, len(m.tasks))
	for _, task := range m.tasks {
		out[task.Angle] = task.Prompt
	}
	return out
}

func (m *mockSubmitter) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// solidPNG は指定色で塗りつぶした w×h の PNG を作るヘルパーです。
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func pngAsset(t *testing.T, c color.Color, name string) domain.ImageAsset {
	t.Helper()
	return domain.NewImageAsset(solidPNG(t, 10, 10, c), "image/png", name)
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)
