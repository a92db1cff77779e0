package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/scribe/internal/config"
)

func TestParseCitations(t *testing.T) {
	cites, err := parseCitations(`{
		"apa7": "Smith, J. (2020). A Study.",
		"mla9": "Smith, John. A Study. 2020.",
		"chicago": "Smith, John. A Study. 2020.",
		"harvard": "Smith, J. (2020) A Study."
	}`)
	require.NoError(t, err)
	require.Equal(t, "Smith, J. (2020). A Study.", cites.APA7)
	require.Equal(t, "Smith, J. (2020) A Study.", cites.Harvard)
}

func TestParseCitationsMissingStyle(t *testing.T) {
	cites, err := parseCitations(`{
		"apa7": "Smith, J. (2020). A Study.",
		"mla9": "Smith, John. A Study. 2020.",
		"chicago": "",
		"harvard": "Smith, J. (2020) A Study."
	}`)
	require.Error(t, err)
	require.Nil(t, cites)
	require.Contains(t, err.Error(), "chicago")
}

func TestParseCitationsInvalidJSON(t *testing.T) {
	cites, err := parseCitations(`not json`)
	require.Error(t, err)
	require.Nil(t, cites)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	original := config.OpenAIAPIKey
	config.OpenAIAPIKey = ""
	t.Cleanup(func() { config.OpenAIAPIKey = original })

	cites, err := NewOpenAI().Generate(context.Background(), "some book", "January 2, 2026")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoAPIKey))
	require.Nil(t, cites)
}
