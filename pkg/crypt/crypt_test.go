package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedJSONRoundTrip(t *testing.T) {
	SetKey("app-key")
	t.Cleanup(func() { SetKey("") })

	history := EncryptedJSON{"allergies": []interface{}{"lidocaine"}, "pregnant": false}

	v, err := history.Value()
	require.NoError(t, err)
	stored, ok := v.(string)
	require.True(t, ok)
	assert.NotContains(t, stored, "lidocaine")

	var out EncryptedJSON
	require.NoError(t, out.Scan(stored))
	assert.Equal(t, []interface{}{"lidocaine"}, out["allergies"])
	assert.Equal(t, false, out["pregnant"])
}

func TestEncryptedJSONScanWithWrongKeyIsEmpty(t *testing.T) {
	SetKey("first-key")
	v, err := EncryptedJSON{"notes": "botox 2023"}.Value()
	require.NoError(t, err)

	SetKey("second-key")
	t.Cleanup(func() { SetKey("") })

	var out EncryptedJSON
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.NotNil(t, out)
	assert.Empty(t, out)

	require.NoError(t, out.Scan("garbage!!"))
	assert.Empty(t, out)
}

func TestValueWithoutKey(t *testing.T) {
	SetKey("")
	_, err := EncryptedJSON{"a": 1}.Value()
	assert.ErrorIs(t, err, ErrNoKey)

	v, err := EncryptedJSON(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
