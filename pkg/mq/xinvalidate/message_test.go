package xinvalidate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvict_PopulatesAllFields(t *testing.T) {
	msg := NewEvict("inst-1", "users", "42")

	assert.NotEmpty(t, msg.MessageID)
	assert.Equal(t, "inst-1", msg.SourceInstanceID)
	assert.Equal(t, "users", msg.CacheName)
	assert.Equal(t, TypeEvict, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
	require.NotNil(t, msg.CacheKey)
	assert.Equal(t, "42", *msg.CacheKey)
}

func TestNewClear_HasNilCacheKey(t *testing.T) {
	msg := NewClear("inst-1", "users")

	assert.Equal(t, TypeClear, msg.Type)
	assert.Nil(t, msg.CacheKey)
	assert.Empty(t, msg.Key())
}

func TestMessage_EncodeDecode_RoundTrips(t *testing.T) {
	original := NewEvict("inst-1", "users", "42")

	payload, err := original.Encode()
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestMessage_Encode_UsesWireFieldNames(t *testing.T) {
	payload, err := NewEvict("inst-1", "users", "42").Encode()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))

	// 跨语言消费方依赖这些字段名
	assert.Contains(t, fields, "messageId")
	assert.Contains(t, fields, "sourceInstanceId")
	assert.Contains(t, fields, "cacheName")
	assert.Contains(t, fields, "cacheKey")
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "timestamp")
}

func TestMessage_Encode_ClearOmitsCacheKey(t *testing.T) {
	payload, err := NewClear("inst-1", "users").Encode()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.NotContains(t, fields, "cacheKey")
}

func TestDecode_WithInvalidJSON_ReturnsError(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestMessage_IsFrom_MatchesSourceInstance(t *testing.T) {
	msg := NewEvict("inst-1", "users", "42")

	assert.True(t, msg.IsFrom("inst-1"))
	assert.False(t, msg.IsFrom("inst-2"))
}

func TestNewInstanceID_IsUniquePerCall(t *testing.T) {
	a := NewInstanceID()
	b := NewInstanceID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
