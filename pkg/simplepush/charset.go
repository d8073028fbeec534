package simplepush

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// EncodingUTF8 is the default text encoding for a Buffer.
const EncodingUTF8 = "utf-8"

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// decodeText converts raw bytes in the named encoding to text. UTF-8 input
// is taken as-is.
func decodeText(name string, raw []byte) (string, error) {
	if isUTF8(name) {
		return string(raw), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", &EncodingError{Encoding: name, Err: err}
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &EncodingError{Encoding: name, Err: err}
	}
	return string(out), nil
}

// encodeText converts text to bytes in the named encoding. Runes outside the
// target repertoire surface as an EncodingError.
func encodeText(name, text string) ([]byte, error) {
	if isUTF8(name) {
		return []byte(text), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, &EncodingError{Encoding: name, Err: err}
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &EncodingError{Encoding: name, Err: err}
	}
	return out, nil
}

// KnownEncoding reports whether the named character encoding can be resolved.
func KnownEncoding(name string) bool {
	if isUTF8(name) {
		return true
	}
	_, err := htmlindex.Get(name)
	return err == nil
}
