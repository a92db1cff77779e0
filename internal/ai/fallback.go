// Package ai generates citations for inputs no structured provider could
// resolve, using an LLM constrained to a strict JSON output schema.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"github.com/spf13/viper"

	"github.com/lepinkainen/scribe/internal/citation"
	"github.com/lepinkainen/scribe/internal/config"
)

// ErrNoAPIKey is returned when the fallback is invoked without a configured
// OpenAI API key.
var ErrNoAPIKey = errors.New("openai api key not configured")

// Fallback produces citations for inputs that no structured provider could
// resolve.
type Fallback interface {
	Generate(ctx context.Context, rawInput, accessDate string) (*citation.Citations, error)
}

// citationSchema constrains the model output to exactly the four style keys.
var citationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"apa7":    map[string]any{"type": "string"},
		"mla9":    map[string]any{"type": "string"},
		"chicago": map[string]any{"type": "string"},
		"harvard": map[string]any{"type": "string"},
	},
	"required":             []string{"apa7", "mla9", "chicago", "harvard"},
	"additionalProperties": false,
}

const promptTemplate = `Generate bibliographic citations for the following source in all four styles: APA 7th edition, MLA 9th edition, Chicago, and Harvard.

Source: %s

Use %s as the access date where the style calls for one. Emphasized titles must be wrapped in *asterisks*. If a detail is unknown, follow each style's convention for missing information (for example "n.d." for a missing date). Return only the JSON object.`

// OpenAIFallback implements Fallback against the OpenAI Responses API.
type OpenAIFallback struct{}

// NewOpenAI returns the production fallback client.
func NewOpenAI() *OpenAIFallback { return &OpenAIFallback{} }

// Generate asks the model for one citation per style and validates the
// response shape.
func (f *OpenAIFallback) Generate(ctx context.Context, rawInput, accessDate string) (*citation.Citations, error) {
	if config.OpenAIAPIKey == "" {
		return nil, ErrNoAPIKey
	}

	slog.Debug("Falling back to AI citation generation", "input", rawInput)

	client := openai.NewClient(option.WithAPIKey(config.OpenAIAPIKey))
	response, err := client.Responses.New(ctx, responses.ResponseNewParams{
		Model: modelName(),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(
							fmt.Sprintf(promptTemplate, rawInput, accessDate),
						),
					},
					"user",
				),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema("citations", citationSchema),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	return parseCitations(response.OutputText())
}

// modelName reads the configured model, defaulting to a small general model.
func modelName() shared.ChatModel {
	if m := viper.GetString("OpenAIModel"); m != "" {
		return shared.ChatModel(m)
	}
	return shared.ChatModelGPT4oMini
}

// parseCitations decodes the model output and rejects responses missing any
// of the four styles.
func parseCitations(output string) (*citation.Citations, error) {
	var cites citation.Citations
	if err := json.Unmarshal([]byte(output), &cites); err != nil {
		return nil, fmt.Errorf("failed to decode AI citation response: %w", err)
	}

	var missing []string
	for style, value := range map[string]string{
		"apa7":    cites.APA7,
		"mla9":    cites.MLA9,
		"chicago": cites.Chicago,
		"harvard": cites.Harvard,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, style)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("AI citation response missing styles: %s", strings.Join(missing, ", "))
	}
	return &cites, nil
}
