package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageResultsMarshalPreservesOrder(t *testing.T) {
	s := StageResults{
		{Stage: "zeta", Output: `{"a":1}`},
		{Stage: "alpha", Output: "plain text"},
		{Stage: "mid", Output: ""},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"{\"a\":1}","alpha":"plain text","mid":""}`, string(b))
}

func TestStageResultsRoundTrip(t *testing.T) {
	s := StageResults{
		{Stage: "first", Output: "one"},
		{Stage: "second", Output: "two"},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var back StageResults
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)

	out, ok := back.Get("second")
	require.True(t, ok)
	assert.Equal(t, "two", out)

	_, ok = back.Get("third")
	assert.False(t, ok)
}

func TestStageResultsUnmarshalRejectsNonObject(t *testing.T) {
	var s StageResults
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &s))
}
