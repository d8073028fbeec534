// Package simplepush provides a streaming multipart-message buffer: an
// ordered queue of heterogeneous content parts (JSON, script text, plain
// text, binary media) that is incrementally assembled into a single
// multipart/mixed byte stream, suitable for push-style delivery over a
// long-lived connection.
//
// Parts are appended with Push and drained with Pull or Flush. The first
// successful Pull opens a session: the stream preamble (MIME-Version and
// Content-Type headers) is emitted once, each part is framed between
// boundary marker lines, and Finish closes the session with the terminating
// marker and invalidates the boundary. A Buffer may be reused; every session
// gets a fresh boundary token.
//
// Input and output transforms are selected by mimetype: an exact match wins
// over the primary type (the substring before "/"), with a raw passthrough
// as the input default and no transform as the output default. Named data
// sources are resolved through a ResourceOpener; implementations backed by
// memory, the filesystem, S3, and Postgres are provided under
// subpackages of resource.
//
// A Buffer is single-threaded. It holds no locks; callers that
// feed and drain the same buffer from multiple goroutines must serialize
// access externally.
package simplepush
