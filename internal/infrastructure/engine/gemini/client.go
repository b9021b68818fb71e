// Package gemini adapts the external Gemini analysis engine: tier selection
// per content category, schema-constrained requests, typed failure mapping.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
)

const (
	defaultTextModel   = "gemini-2.5-flash"
	defaultVisionModel = "gemini-3-pro-preview"
)

type Config struct {
	APIKey      string
	TextModel   string
	VisionModel string
}

type Client struct {
	cfg    Config
	client *genai.Client
}

// New builds the adapter. A missing API key is not a construction error:
// the adapter is still usable and reports the configuration problem per
// analysis call, before any network attempt.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}

	c := &Client{cfg: cfg}
	if cfg.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ModelFor selects the processing tier: binary/multimodal categories go to
// the vision model, plain text to the lighter text model. Pure function of
// the category.
func ModelFor(category domain.Category, textModel, visionModel string) string {
	if category == domain.CategoryImage || category == domain.CategoryPDF {
		return visionModel
	}
	return textModel
}

// Analyze submits the normalized content and decodes the structured report.
// No retries: each failure surfaces exactly once to the caller.
func (c *Client) Analyze(
	ctx context.Context,
	category domain.Category,
	content string,
) (*domain.AnalysisReport, error) {
	if c.client == nil {
		return nil, domain.WrapError(
			domain.ErrConfiguration,
			"analyze document",
			errors.New("GEMINI_API_KEY is not set"),
		)
	}

	parts, err := buildParts(category, content)
	if err != nil {
		return nil, err
	}

	model := c.client.GenerativeModel(ModelFor(category, c.cfg.TextModel, c.cfg.VisionModel))
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = reportSchema
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEngineCall, "generate content", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, domain.WrapError(
			domain.ErrEngineEmpty,
			"generate content",
			errors.New("no candidates with text parts"),
		)
	}
	return parseReport(text)
}

func buildParts(category domain.Category, content string) ([]genai.Part, error) {
	switch category {
	case domain.CategoryText, domain.CategoryWord:
		return []genai.Part{
			genai.Text(analysisPrompt),
			genai.Text("Conteúdo do Documento:\n" + content),
		}, nil

	case domain.CategoryPDF, domain.CategoryImage:
		payload, declaredMIME := stripDataURI(content)
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "decode payload", err)
		}
		mime := "application/pdf"
		if category == domain.CategoryImage {
			// A generic image type is enough; the model does not need the
			// exact subtype.
			mime = "image/jpeg"
			if strings.HasPrefix(declaredMIME, "image/") {
				mime = declaredMIME
			}
		}
		return []genai.Part{
			genai.Text(analysisPrompt),
			genai.Blob{MIMEType: mime, Data: data},
		}, nil

	default:
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"build request",
			fmt.Errorf("category %s cannot be analyzed", category),
		)
	}
}

// stripDataURI removes the data URI wrapper the extractor adds for binary
// payloads and reports the declared media type, if any.
func stripDataURI(content string) (payload, mime string) {
	if !strings.HasPrefix(content, "data:") {
		return content, ""
	}
	comma := strings.Index(content, ",")
	if comma < 0 {
		return content, ""
	}
	header := content[len("data:"):comma]
	return content[comma+1:], strings.TrimSuffix(header, ";base64")
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}

func parseReport(raw string) (*domain.AnalysisReport, error) {
	var report domain.AnalysisReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, domain.WrapError(domain.ErrEngineMalformed, "parse report", err)
	}
	if strings.TrimSpace(report.Summary) == "" {
		return nil, domain.WrapError(
			domain.ErrEngineMalformed,
			"parse report",
			errors.New("summary is empty"),
		)
	}
	return &report, nil
}
