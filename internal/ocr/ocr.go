// Package ocr downloads an invoice image and runs text detection on it.
package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

type Config struct {
	APIKey   string
	Endpoint string        // images:annotate URL
	Timeout  time.Duration // per HTTP request, default 20s
	MaxBytes int           // download cap, default constants.MaxOCRImageMB
}

type Result struct {
	Text        string
	ContentType string
	Bytes       int
	Confidence  float32
	Duration    time.Duration
}

// TextDetector returns the text found in the file at a URL.
type TextDetector interface {
	TextFromURL(ctx context.Context, fileURL string) (Result, error)
}

type Client struct {
	cfg    Config
	http   *resty.Client
	logger *slog.Logger
}

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = constants.MaxOCRImageMB << 20
	}
	return &Client{
		cfg:    cfg,
		http:   resty.New().SetTimeout(cfg.Timeout),
		logger: logger,
	}
}

// TextFromURL downloads fileURL and runs text detection on the bytes.
// common.ErrNoText when nothing was recognized.
func (c *Client) TextFromURL(ctx context.Context, fileURL string) (Result, error) {
	logger := common.LoggerFromContext(ctx, c.logger)
	start := time.Now()

	img, ct, err := c.Fetch(ctx, fileURL)
	if err != nil {
		return Result{}, err
	}
	text, err := c.DetectText(ctx, img)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Text:        text,
		ContentType: ct,
		Bytes:       len(img),
		Confidence:  heuristicConfidence(text),
		Duration:    time.Since(start),
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("ocr.no_text", "bytes", res.Bytes, "content_type", ct)
		return res, common.ErrNoText
	}
	logger.Info("ocr.ok",
		"bytes", res.Bytes, "content_type", ct, "text_len", len(text),
		"confidence", res.Confidence, "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

// Fetch downloads an image, enforcing the size cap and accepted content types.
// The body is read through a limit, so an oversized stream is cut off at
// MaxBytes+1 rather than buffered whole.
func (c *Client) Fetch(ctx context.Context, fileURL string) ([]byte, string, error) {
	resp, err := c.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(fileURL)
	if err != nil {
		return nil, "", common.NewAppError(common.CodeOCR, "download file", fmt.Errorf("%w: %v", common.ErrOCR, err))
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		return nil, "", common.NewAppError(common.CodeOCR,
			fmt.Sprintf("download file: %s", resp.Status()), common.ErrOCR)
	}
	ct := constants.NormalizeContentType(resp.Header().Get("Content-Type"))
	if !constants.IsOCRContentType(ct) {
		return nil, ct, common.NewAppError(common.CodeValidation,
			fmt.Sprintf("unsupported file type %q", ct), common.ErrValidation)
	}
	if resp.RawResponse.ContentLength > int64(c.cfg.MaxBytes) {
		return nil, ct, tooLarge(resp.RawResponse.ContentLength, c.cfg.MaxBytes)
	}
	body, err := io.ReadAll(io.LimitReader(raw, int64(c.cfg.MaxBytes)+1))
	if err != nil {
		return nil, ct, common.NewAppError(common.CodeOCR, "read file", fmt.Errorf("%w: %v", common.ErrOCR, err))
	}
	if len(body) > c.cfg.MaxBytes {
		return nil, ct, tooLarge(int64(len(body)), c.cfg.MaxBytes)
	}
	if len(body) == 0 {
		return nil, ct, common.ErrNoText
	}
	return body, ct, nil
}

func tooLarge(n int64, limit int) error {
	return common.NewAppError(common.CodeValidation,
		fmt.Sprintf("file is at least %d bytes, limit is %d", n, limit), common.ErrValidation)
}
