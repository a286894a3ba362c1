package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	FullTextAnnotation *struct {
		Text string `json:"text"`
	} `json:"fullTextAnnotation"`
	TextAnnotations []struct {
		Description string `json:"description"`
	} `json:"textAnnotations"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DetectText sends image bytes to the text-detection API and returns the full
// text annotation. An image without text yields "" and no error.
func (c *Client) DetectText(ctx context.Context, img []byte) (string, error) {
	body := annotateRequest{Requests: []imageRequest{{
		Image:    imageContent{Content: base64.StdEncoding.EncodeToString(img)},
		Features: []feature{{Type: "TEXT_DETECTION"}},
	}}}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetQueryParam("key", c.cfg.APIKey).
		SetBody(body).
		Post(c.cfg.Endpoint)
	if err != nil {
		return "", common.NewAppError(common.CodeOCR, "text detection request", fmt.Errorf("%w: %v", common.ErrOCR, err))
	}
	if resp.IsError() {
		return "", common.NewAppError(common.CodeOCR,
			fmt.Sprintf("text detection: %s - %s", resp.Status(), resp.String()), common.ErrOCR)
	}
	var out annotateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", common.NewAppError(common.CodeOCR, "decode text detection reply", fmt.Errorf("%w: %v", common.ErrOCR, err))
	}
	if len(out.Responses) == 0 {
		return "", nil
	}
	r := out.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return "", common.NewAppError(common.CodeOCR,
			fmt.Sprintf("text detection: %d %s", r.Error.Code, r.Error.Message), common.ErrOCR)
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		return r.TextAnnotations[0].Description, nil
	}
	return "", nil
}
