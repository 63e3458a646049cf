package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "P/E is "}, {Text: "price over earnings."}}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "P/E is price over earnings.", text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(nil)
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("  {\"a\":1}  "))
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		DocumentType string   `json:"document_type"`
		Insights     []string `json:"insights"`
	}
	err := decodeJSON("```json\n{\"document_type\":\"Annual Report\",\"insights\":[\"a\",\"b\"]}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "Annual Report", out.DocumentType)
	assert.Len(t, out.Insights, 2)

	assert.Error(t, decodeJSON("not json", &out))
}
