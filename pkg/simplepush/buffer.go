package simplepush

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
)

// Buffer assembles queued parts into a single multipart/mixed byte stream.
//
// The zero boundary means "no active session": a token is generated lazily on
// first access and invalidated when Finish completes a session, so a reused
// buffer gets a fresh boundary per session. The text encoding is fixed at
// construction and must not change between pushes that rely on it.
//
// A Buffer holds no locks. Concurrent Push/Pull/Flush/Finish calls from
// multiple goroutines are undefined behavior; serialize access externally.
type Buffer struct {
	encoding string
	boundary string
	started  bool
	queue    partQueue
	gen      BoundaryGenerator
	opener   ResourceOpener
}

// Option represents a functional option for configuring a Buffer
type Option func(*Buffer)

// WithEncoding sets the buffer's text encoding (default "utf-8").
func WithEncoding(name string) Option {
	return func(b *Buffer) {
		if name != "" {
			b.encoding = name
		}
	}
}

// WithBoundaryGenerator replaces the default boundary generator.
func WithBoundaryGenerator(gen BoundaryGenerator) Option {
	return func(b *Buffer) {
		if gen != nil {
			b.gen = gen
		}
	}
}

// WithResourceOpener sets the opener used to resolve named data sources.
func WithResourceOpener(opener ResourceOpener) Option {
	return func(b *Buffer) {
		b.opener = opener
	}
}

// New creates an empty Buffer with the given options.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		encoding: EncodingUTF8,
		gen:      NewBoundaryGenerator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Encoding returns the text encoding fixed at construction.
func (b *Buffer) Encoding() string {
	return b.encoding
}

// Len returns the number of queued, not yet pulled parts.
func (b *Buffer) Len() int {
	return b.queue.count()
}

// Started reports whether a session is in progress, i.e. the first part of a
// stream has been pulled and the terminator has not been issued yet.
func (b *Buffer) Started() bool {
	return b.started
}

// Boundary returns the separator token for the current session, generating a
// fresh one when none is active.
func (b *Buffer) Boundary() string {
	if b.boundary == "" {
		b.boundary = b.gen.Generate()
	}
	return b.boundary
}

// Push validates the request, materializes the payload through the input
// transform and appends the part to the queue. Input transforms run eagerly;
// either the part is fully materialized and queued, or nothing is.
func (b *Buffer) Push(ctx context.Context, req PushRequest) error {
	if req.MimeType == "" {
		return ErrMissingMimeType
	}
	part, err := b.materialize(ctx, req)
	if err != nil {
		return err
	}
	b.queue.append(part)
	return nil
}

// Pull dequeues one part, applies its output transform and frames it with
// the session boundary. An empty queue yields a nil chunk and no state
// change. The first successful Pull opens the session and prefixes the chunk
// with the stream preamble; later chunks are prefixed with a single line
// feed that completes the previous boundary marker line.
func (b *Buffer) Pull() ([]byte, error) {
	part, ok := b.queue.dequeue()
	if !ok {
		return nil, nil
	}
	body, err := b.encodePart(part)
	if err != nil {
		return nil, err
	}

	boundary := b.Boundary()
	var chunk bytes.Buffer
	if !b.started {
		b.started = true
		fmt.Fprintf(&chunk, "MIME-Version: 1.0\nContent-Type: multipart/mixed; boundary=\"%s\"\n\n--%s\n", boundary, boundary)
	} else {
		chunk.WriteByte('\n')
	}
	fmt.Fprintf(&chunk, "Content-Type: %s\n", part.MimeType)
	chunk.Write(body)
	if len(body) == 0 || body[len(body)-1] != '\n' {
		chunk.WriteByte('\n')
	}
	chunk.WriteString("--")
	chunk.WriteString(boundary)
	return chunk.Bytes(), nil
}

// Flush drains the queue through repeated pulls, appends the session
// terminator and ends the session. Flushing an empty, never-started buffer
// returns nil without generating or invalidating a boundary.
func (b *Buffer) Flush() ([]byte, error) {
	var out bytes.Buffer
	for {
		chunk, err := b.Pull()
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		out.Write(chunk)
	}
	out.Write(b.Finish())
	if out.Len() == 0 {
		return nil, nil
	}
	return out.Bytes(), nil
}

// Finish ends the current session: the queue is cleared, the boundary is
// invalidated so the next access regenerates a new one, and the closing
// dashes of the terminator line are returned, completing the "--<boundary>"
// already emitted by the last Pull. Calling Finish on a buffer that never
// started, or twice in a row, returns nil.
func (b *Buffer) Finish() []byte {
	if !b.started {
		return nil
	}
	b.started = false
	b.queue.clear()
	if b.boundary == "" {
		return nil
	}
	b.boundary = ""
	return []byte("--\n")
}

// materialize runs the mimetype's input transform against the request's data
// source and returns the resulting part.
func (b *Buffer) materialize(ctx context.Context, req PushRequest) (Part, error) {
	switch inputTable.lookup(req.MimeType) {
	case inputJSON:
		return b.materializeJSON(ctx, req)
	case inputText:
		return b.materializeText(ctx, req)
	default:
		return b.materializeRaw(ctx, req)
	}
}

func (b *Buffer) materializeJSON(ctx context.Context, req PushRequest) (Part, error) {
	if req.Data != nil {
		switch req.Data.(type) {
		case string, []byte:
			// pre-rendered JSON text, used verbatim
			return b.materializeText(ctx, req)
		default:
			text, err := marshalJSONText(req.Data, b.encoding)
			if err != nil {
				return Part{}, fmt.Errorf("marshal json part: %w", err)
			}
			return Part{MimeType: req.MimeType, Text: text}, nil
		}
	}
	// named and handle sources carry rendered JSON text already
	return b.materializeText(ctx, req)
}

func (b *Buffer) materializeText(ctx context.Context, req PushRequest) (Part, error) {
	if req.Data != nil {
		return Part{MimeType: req.MimeType, Text: inlineText(req.Data)}, nil
	}
	raw, err := b.readSource(ctx, req)
	if err != nil {
		return Part{}, err
	}
	enc := req.Encoding
	if enc == "" {
		enc = b.encoding
	}
	text, err := decodeText(enc, raw)
	if err != nil {
		return Part{}, err
	}
	return Part{MimeType: req.MimeType, Text: text}, nil
}

func (b *Buffer) materializeRaw(ctx context.Context, req PushRequest) (Part, error) {
	if req.Data != nil {
		return Part{MimeType: req.MimeType, Raw: inlineBytes(req.Data), Binary: true}, nil
	}
	raw, err := b.readSource(ctx, req)
	if err != nil {
		return Part{}, err
	}
	if req.Encoding != "" {
		// explicit override on a binary mimetype forces a text decode
		text, err := decodeText(req.Encoding, raw)
		if err != nil {
			return Part{}, err
		}
		return Part{MimeType: req.MimeType, Text: text}, nil
	}
	return Part{MimeType: req.MimeType, Raw: raw, Binary: true}, nil
}

// readSource resolves the non-inline data source: a named resource is opened
// through the configured opener, fully read and closed on all paths; an
// already-open handle is read to the end and left open for its owner.
func (b *Buffer) readSource(ctx context.Context, req PushRequest) ([]byte, error) {
	if req.Resource != "" {
		if b.opener == nil {
			return nil, &ResourceError{Name: req.Resource, Op: "open", Err: ErrNoResourceOpener}
		}
		rc, err := b.opener.Open(ctx, req.Resource)
		if err != nil {
			return nil, &ResourceError{Name: req.Resource, Op: "open", Err: err}
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, &ResourceError{Name: req.Resource, Op: "read", Err: err}
		}
		return raw, nil
	}
	if req.Reader != nil {
		raw, err := io.ReadAll(req.Reader)
		if err != nil {
			return nil, &ResourceError{Op: "read", Err: err}
		}
		return raw, nil
	}
	return nil, ErrNoSource
}

// encodePart applies the mimetype's output transform to the stored payload.
func (b *Buffer) encodePart(part Part) ([]byte, error) {
	switch outputTable.lookup(part.MimeType) {
	case outputText:
		return encodeText(b.encoding, part.Text)
	case outputBase64:
		return []byte(base64.StdEncoding.EncodeToString(part.Payload())), nil
	default:
		return part.Payload(), nil
	}
}

func inlineText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func inlineBytes(v any) []byte {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte(fmt.Sprint(t))
	}
}
