package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	reply := "Sure! Here is the analysis you asked for:\n```json\n[{\"timestamp\": 0}, {\"timestamp\": 30}]\n```\nLet me know if you need more."

	frag, err := ExtractJSONArray(reply)
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag), &parsed))
	assert.Len(t, parsed, 2)
}

func TestExtractJSONArrayMissing(t *testing.T) {
	_, err := ExtractJSONArray("I'm sorry, I can't help with that.")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractJSONObject(t *testing.T) {
	reply := "The video shows a cat at the start.\n{\"answer\": \"A cat\", \"relevant_timestamps\": [\"00:00:00\"]}"

	frag, err := ExtractJSONObject(reply)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(frag), &parsed))
	assert.Equal(t, "A cat", parsed["answer"])
}

func TestExtractJSONObjectMissing(t *testing.T) {
	_, err := ExtractJSONObject("no structured data here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

// Greedy matching keeps nested brackets inside the fragment
func TestExtractJSONArrayNested(t *testing.T) {
	reply := `prefix [{"detected_objects": {"car": 2}, "tags": ["a", "b"]}] suffix`

	frag, err := ExtractJSONArray(reply)
	require.NoError(t, err)

	var parsed []struct {
		DetectedObjects map[string]int `json:"detected_objects"`
	}
	require.NoError(t, json.Unmarshal([]byte(frag), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, 2, parsed[0].DetectedObjects["car"])
}
