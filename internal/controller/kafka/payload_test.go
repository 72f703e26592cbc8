package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionBatch_Unmarshal(t *testing.T) {
	// shape the object store actually publishes; surrounding fields are ignored
	payload := []byte(`{
		"Records": [
			{
				"eventName": "s3:ObjectCreated:Put",
				"s3": {
					"bucket": {"name": "images"},
					"object": {"key": "images/u2/9f4c2b6e-8a51-4a2e-b9d3-0c7f1d2e3a4b", "size": 1024}
				}
			},
			{
				"s3": {"object": {"key": "images/u2/0c7f1d2e-3a4b-4a2e-b9d3-9f4c2b6e8a51"}}
			}
		]
	}`)

	var batch CompletionBatch
	require.NoError(t, json.Unmarshal(payload, &batch))

	assert.Equal(t, []string{
		"images/u2/9f4c2b6e-8a51-4a2e-b9d3-0c7f1d2e3a4b",
		"images/u2/0c7f1d2e-3a4b-4a2e-b9d3-9f4c2b6e8a51",
	}, batch.ObjectKeys())
}

func TestCompletionBatch_ObjectKeys_DropsEmpty(t *testing.T) {
	var batch CompletionBatch
	require.NoError(t, json.Unmarshal([]byte(`{"Records":[{"s3":{"object":{}}},{}]}`), &batch))

	assert.Empty(t, batch.ObjectKeys())
}

func TestCompletionBatch_EmptyDocument(t *testing.T) {
	var batch CompletionBatch
	require.NoError(t, json.Unmarshal([]byte(`{}`), &batch))

	assert.Empty(t, batch.ObjectKeys())
}
