package simplepush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformTablePrecedence(t *testing.T) {
	table := transformTable[string]{
		exact:    map[string]string{"text/x-json": "exact"},
		primary:  map[string]string{"text": "primary"},
		fallback: "fallback",
	}

	t.Run("ExactBeatsPrimary", func(t *testing.T) {
		assert.Equal(t, "exact", table.lookup("text/x-json"))
	})

	t.Run("PrimaryBeatsFallback", func(t *testing.T) {
		assert.Equal(t, "primary", table.lookup("text/plain"))
	})

	t.Run("Fallback", func(t *testing.T) {
		assert.Equal(t, "fallback", table.lookup("application/octet-stream"))
	})
}

func TestPrimaryType(t *testing.T) {
	assert.Equal(t, "text", primaryType("text/plain"))
	assert.Equal(t, "image", primaryType("image/svg+xml"))
	assert.Equal(t, "weird", primaryType("weird"))
}

func TestInputTableDispatch(t *testing.T) {
	cases := []struct {
		mimeType string
		want     inputTransform
	}{
		{"application/json", inputJSON},
		{"text/x-json", inputJSON},
		{"application/javascript", inputText},
		{"application/x-ecmascript", inputText},
		{"text/ecmascript", inputText},
		{"text/plain", inputText},
		{"text/html", inputText},
		{"image/gif", inputRaw},
		{"video/mp4", inputRaw},
		{"application/octet-stream", inputRaw},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inputTable.lookup(tc.mimeType), tc.mimeType)
	}
}

func TestOutputTableDispatch(t *testing.T) {
	cases := []struct {
		mimeType string
		want     outputTransform
	}{
		{"application/json", outputText},
		{"text/javascript", outputText},
		{"text/plain", outputText},
		{"image/png", outputBase64},
		{"video/webm", outputBase64},
		{"audio/ogg", outputBase64},
		{"application/octet-stream", outputNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, outputTable.lookup(tc.mimeType), tc.mimeType)
	}
}

func TestMarshalJSONText(t *testing.T) {
	t.Run("UTF8", func(t *testing.T) {
		text, err := marshalJSONText(map[string]any{"k": "v"}, "utf-8")
		require.NoError(t, err)
		assert.Equal(t, `{"k":"v"}`, text)
	})

	t.Run("NoHTMLEscaping", func(t *testing.T) {
		text, err := marshalJSONText(map[string]any{"k": "<b>&</b>"}, "utf-8")
		require.NoError(t, err)
		assert.Equal(t, `{"k":"<b>&</b>"}`, text)
	})

	t.Run("NarrowEncodingEscapes", func(t *testing.T) {
		text, err := marshalJSONText(map[string]any{"k": "café"}, "iso-8859-1")
		require.NoError(t, err)
		assert.Equal(t, `{"k":"caf\u00e9"}`, text)
	})
}

func TestEscapeNonASCII(t *testing.T) {
	assert.Equal(t, "plain", escapeNonASCII("plain"))
	assert.Equal(t, `caf\u00e9`, escapeNonASCII("café"))
	// astral-plane rune becomes a surrogate pair
	assert.Equal(t, `\ud83d\ude00`, escapeNonASCII("😀"))
}

func TestCharsetCodec(t *testing.T) {
	t.Run("DecodeLatin1", func(t *testing.T) {
		text, err := decodeText("iso-8859-1", []byte{0xe9})
		require.NoError(t, err)
		assert.Equal(t, "é", text)
	})

	t.Run("EncodeLatin1", func(t *testing.T) {
		raw, err := encodeText("iso-8859-1", "é")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xe9}, raw)
	})

	t.Run("EncodeUnrepresentable", func(t *testing.T) {
		_, err := encodeText("iso-8859-1", "日本語")
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
	})

	t.Run("UnknownEncoding", func(t *testing.T) {
		_, err := decodeText("no-such-charset", []byte("x"))
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.False(t, KnownEncoding("no-such-charset"))
		assert.True(t, KnownEncoding("utf-8"))
		assert.True(t, KnownEncoding("iso-8859-1"))
	})
}
