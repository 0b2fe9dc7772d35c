package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shouni/tryon-view-kit/internal/service"
	"github.com/shouni/tryon-view-kit/pkg/domain"
	"github.com/shouni/tryon-view-kit/pkg/generator"
	"github.com/shouni/tryon-view-kit/pkg/imgutil"
	"github.com/shouni/tryon-view-kit/pkg/utils"
)

type Handler struct {
	service       service.TryOnService
	maxUploadSize int64
	timeout       time.Duration
	log           *zap.Logger
}

func NewHandler(svc service.TryOnService, maxUploadSize int64, timeout time.Duration, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service:       svc,
		maxUploadSize: maxUploadSize,
		timeout:       timeout,
		log:           log.With(zap.String("component", "handler")),
	}
}

// tryOnInput は multipart と JSON の両方から組み立てる共通の入力です。
type tryOnInput struct {
	request domain.GenerationRequest
	partial bool
}

// tryOnJSON は JSON で送る場合のリクエストボディです。画像は data URL か base64 文字列です。
type tryOnJSON struct {
	Person      string `json:"person"`
	Product     string `json:"product"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	Seed        *int64 `json:"seed"`
	Partial     bool   `json:"partial"`
}

type viewResponse struct {
	DataURL    string `json:"data_url,omitempty"`
	MIMEType   string `json:"mime_type,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
	Error      string `json:"error,omitempty"`
}

type tryOnResponse struct {
	ID           string                  `json:"id"`
	Views        map[string]viewResponse `json:"views"`
	FailedAngles []string                `json:"failed_angles,omitempty"`
}

// errRequestTooLarge はリクエスト本文全体が上限を超えた場合のエラーです。
var errRequestTooLarge = errors.New("request too large")

// TryOn は人物画像と商品画像を受け取り、4視点の試着画像を返します。
func (h *Handler) TryOn(c *gin.Context) {
	// JSON の base64 は元データより大きくなるため、本文全体には余裕を持たせる
	bodyLimit := 3 * h.maxUploadSize
	if c.Request.ContentLength > bodyLimit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errRequestTooLarge.Error()})
		return
	}
	body := &limitedBody{ReadCloser: http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)}
	c.Request.Body = body

	var (
		in  *tryOnInput
		err error
	)
	if c.ContentType() == gin.MIMEJSON {
		in, err = h.bindJSON(c)
	} else {
		in, err = h.bindMultipart(c)
	}
	if err != nil {
		// multipart の解析エラーは上限超過を隠すため、読み込み側の記録で判定する
		if body.exceeded {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errRequestTooLarge.Error()})
			return
		}
		h.log.Warn("Invalid try-on request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.generationContext(c)
	defer cancel()

	res, err := h.service.GenerateViews(ctx, in.request, in.partial)
	if err != nil {
		h.writeError(c, ctx, err)
		return
	}

	resp := tryOnResponse{
		ID:    res.ID,
		Views: make(map[string]viewResponse, domain.ViewAngleCount),
	}
	for _, r := range res.Outcome.Results() {
		name := r.Angle.String()
		if !r.OK() {
			resp.Views[name] = viewResponse{Error: r.Err.Error()}
			resp.FailedAngles = append(resp.FailedAngles, name)
			continue
		}
		resp.Views[name] = viewResponse{
			DataURL:    imgutil.EncodeDataURL(r.Asset.MIMEType(), r.Asset.Data()),
			MIMEType:   r.Asset.MIMEType(),
			FileName:   r.Asset.Name(),
			StorageKey: res.StorageKeys[r.Angle],
		}
	}

	c.JSON(http.StatusOK, resp)
}

// generationContext は生成用のコンテキストを返します。timeout が0以下なら期限を設けません。
func (h *Handler) generationContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// limitedBody は http.MaxBytesReader の上限超過を記録します。
type limitedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		b.exceeded = true
	}
	return n, err
}

func (h *Handler) writeError(c *gin.Context, ctx context.Context, err error) {
	var genErr *domain.GenerationError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		h.log.Error("Try-on generation timed out", zap.Duration("timeout", h.timeout), zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "generation timed out"})
	case errors.As(err, &genErr):
		angles := make([]string, 0, len(genErr.Failures))
		for _, a := range genErr.Angles() {
			angles = append(angles, a.String())
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":         err.Error(),
			"failed_angles": angles,
		})
	default:
		h.log.Error("Try-on generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate views"})
	}
}

func (h *Handler) bindJSON(c *gin.Context) (*tryOnInput, error) {
	var body tryOnJSON
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	person, err := h.decodeImage("person", body.Person)
	if err != nil {
		return nil, err
	}
	product, err := h.decodeImage("product", body.Product)
	if err != nil {
		return nil, err
	}

	return &tryOnInput{
		request: domain.GenerationRequest{
			Person:       person,
			Product:      product,
			Instructions: body.Prompt,
			AspectRatio:  body.AspectRatio,
			Seed:         body.Seed,
		},
		partial: body.Partial,
	}, nil
}

func (h *Handler) decodeImage(field, encoded string) (domain.ImageAsset, error) {
	if strings.TrimSpace(encoded) == "" {
		return domain.ImageAsset{}, fmt.Errorf("%s image is required", field)
	}
	data, declared, err := imgutil.DecodeDataURL(encoded)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("%s image: %w", field, err)
	}
	if int64(len(data)) > h.maxUploadSize {
		return domain.ImageAsset{}, fmt.Errorf("%s image is too large", field)
	}
	return domain.NewImageAsset(data, imgutil.ResolveMIME(declared, data), field), nil
}

func (h *Handler) bindMultipart(c *gin.Context) (*tryOnInput, error) {
	person, err := h.readFormImage(c, "person")
	if err != nil {
		return nil, err
	}
	product, err := h.readFormImage(c, "product")
	if err != nil {
		return nil, err
	}

	in := &tryOnInput{
		request: domain.GenerationRequest{
			Person:       person,
			Product:      product,
			Instructions: c.PostForm("prompt"),
			AspectRatio:  c.PostForm("aspect_ratio"),
		},
	}

	seed, err := utils.ParseSeed(c.PostForm("seed"))
	if err != nil {
		return nil, err
	}
	in.request.Seed = seed

	if s := c.PostForm("partial"); s != "" {
		partial, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid partial flag %q", s)
		}
		in.partial = partial
	}
	return in, nil
}

func (h *Handler) readFormImage(c *gin.Context, field string) (domain.ImageAsset, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return domain.ImageAsset{}, fmt.Errorf("%s image is required", field)
	}
	if file.Size > h.maxUploadSize {
		return domain.ImageAsset{}, fmt.Errorf("%s image is too large", field)
	}

	data, err := readFileHeader(file)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.String("field", field), zap.Error(err))
		return domain.ImageAsset{}, fmt.Errorf("failed to read %s image", field)
	}
	return domain.NewImageAsset(data, imgutil.ResolveMIME(file.Header.Get("Content-Type"), data), file.Filename), nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Angles は生成される視点とその説明を返します。
func (h *Handler) Angles(c *gin.Context) {
	angles := make([]gin.H, 0, domain.ViewAngleCount)
	for _, a := range domain.AllViewAngles() {
		angles = append(angles, gin.H{
			"angle":       a.String(),
			"description": generator.ViewpointDescription(a),
		})
	}
	c.JSON(http.StatusOK, gin.H{"angles": angles})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
