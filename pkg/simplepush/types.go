package simplepush

import "io"

// Part is one queued content unit: a declared mimetype plus its payload,
// fully materialized at push time. Text-class parts carry decoded text in
// Text; everything else carries bytes in Raw with Binary set.
type Part struct {
	MimeType string
	Text     string
	Raw      []byte
	Binary   bool
}

// Payload returns the stored payload as bytes, before any output transform.
func (p Part) Payload() []byte {
	if p.Binary {
		return p.Raw
	}
	return []byte(p.Text)
}

// PushRequest describes one part to enqueue. Exactly one data source must be
// set, checked in order: Data (an inline value, used as-is), Resource (a
// named resource resolved through the buffer's ResourceOpener, opened once,
// fully read, then closed), or Reader (an already-open handle, fully read
// from its current position and left open).
type PushRequest struct {
	MimeType string
	Data     any
	Resource string
	Reader   io.Reader

	// Encoding overrides the buffer's configured encoding when decoding
	// Resource or Reader bytes. For non-text mimetypes setting it forces a
	// text decode and is discouraged.
	Encoding string
}
