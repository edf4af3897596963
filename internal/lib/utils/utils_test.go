package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, "user", map[string]any{"name": "Ann"}))
	assert.Equal(t, "user:\n{\n  \"name\": \"Ann\"\n}\n", buf.String())
}

func TestPrintJSON_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PrintJSON(&buf, "chan", make(chan int)))
	assert.Empty(t, buf.String())
}
