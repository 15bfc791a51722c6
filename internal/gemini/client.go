package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// GenerateText sends a prompt to the text model and returns the raw response
// text. Single turn, no streaming; the caller owns any JSON recovery.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("gemini.generate.start",
		"req_id", rid,
		"model", c.cfg.TextModel,
		"prompt_len", len(prompt),
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.genai.GenerativeModel(c.cfg.TextModel)
	model.SetTemperature(c.cfg.Temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("gemini.generate.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		c.logger.Error("gemini.generate.empty",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.Info("gemini.generate.ok",
		"req_id", rid,
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// GenerateFromFile sends a prompt plus raw file bytes to the vision model.
// Used by both extraction passes: whole documents and single rasterized pages.
func (c *Client) GenerateFromFile(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("gemini.vision.start",
		"req_id", rid,
		"model", c.cfg.VisionModel,
		"mime_type", mimeType,
		"payload_bytes", len(data),
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.genai.GenerativeModel(c.cfg.VisionModel)
	model.SetTemperature(c.cfg.Temperature)

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		c.logger.Error("gemini.vision.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("gemini vision: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		// An empty candidate list usually means everything was filtered;
		// treat it as empty text rather than a hard failure.
		c.logger.Warn("gemini.vision.empty",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", nil
	}

	c.logger.Info("gemini.vision.ok",
		"req_id", rid,
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text parts in gemini response")
	}
	return strings.TrimSpace(b.String()), nil
}
