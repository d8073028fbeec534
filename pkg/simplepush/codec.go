package simplepush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

// inputTransform tags the conversion applied when a part is pushed.
type inputTransform int

const (
	inputRaw  inputTransform = iota // bytes as-is
	inputText                       // decode source bytes via the declared encoding
	inputJSON                       // serialize structured values, then the text rule
)

// outputTransform tags the conversion applied when a part is pulled.
type outputTransform int

const (
	outputNone   outputTransform = iota // stored bytes as-is
	outputText                          // re-encode text into the buffer encoding
	outputBase64                        // standard base64, no line wrapping
)

// transformTable resolves a mimetype to a transform: an exact match wins,
// then the mimetype's primary type, else the table default. Keeping the
// precedence as an ordered lookup makes it an enumerable, testable rule.
type transformTable[T any] struct {
	exact    map[string]T
	primary  map[string]T
	fallback T
}

func (t transformTable[T]) lookup(mimeType string) T {
	if v, ok := t.exact[mimeType]; ok {
		return v
	}
	if v, ok := t.primary[primaryType(mimeType)]; ok {
		return v
	}
	return t.fallback
}

// primaryType returns the mimetype substring before "/".
func primaryType(mimeType string) string {
	if i := strings.IndexByte(mimeType, '/'); i >= 0 {
		return mimeType[:i]
	}
	return mimeType
}

// Script mimetypes, including the legacy text/* and x- prefixed variants,
// share the text transforms.
var scriptMimeTypes = []string{
	"application/javascript",
	"application/ecmascript",
	"application/x-javascript",
	"application/x-ecmascript",
	"text/javascript",
	"text/ecmascript",
	"text/x-javascript",
	"text/x-ecmascript",
}

// JSON proper plus the legacy alias.
var jsonMimeTypes = []string{
	"application/json",
	"text/x-json",
}

var inputTable = buildInputTable()

func buildInputTable() transformTable[inputTransform] {
	t := transformTable[inputTransform]{
		exact:    make(map[string]inputTransform),
		primary:  map[string]inputTransform{"text": inputText},
		fallback: inputRaw,
	}
	for _, mt := range jsonMimeTypes {
		t.exact[mt] = inputJSON
	}
	for _, mt := range scriptMimeTypes {
		t.exact[mt] = inputText
	}
	return t
}

var outputTable = buildOutputTable()

func buildOutputTable() transformTable[outputTransform] {
	t := transformTable[outputTransform]{
		exact: make(map[string]outputTransform),
		primary: map[string]outputTransform{
			"text":  outputText,
			"image": outputBase64,
			"video": outputBase64,
			"audio": outputBase64,
		},
		fallback: outputNone,
	}
	for _, mt := range jsonMimeTypes {
		t.exact[mt] = outputText
	}
	for _, mt := range scriptMimeTypes {
		t.exact[mt] = outputText
	}
	return t
}

// marshalJSONText renders a structured value as JSON text. When the buffer
// encoding is not UTF-8, every non-ASCII character is emitted as a \uXXXX
// escape so the text survives re-encoding into narrow charsets.
func marshalJSONText(v any, bufferEncoding string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	text := strings.TrimSuffix(buf.String(), "\n")
	if isUTF8(bufferEncoding) {
		return text, nil
	}
	return escapeNonASCII(text), nil
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}
