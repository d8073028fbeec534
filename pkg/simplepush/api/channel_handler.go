package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-push/pkg/simplepush"
)

// Channel owns one push buffer together with the lock that serializes access
// to it; the buffer itself is non-reentrant by contract.
type Channel struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	buffer *simplepush.Buffer
}

// ChannelHandler handles HTTP requests for push channels
type ChannelHandler struct {
	mu        sync.RWMutex
	channels  map[uuid.UUID]*Channel
	newBuffer func() *simplepush.Buffer
}

// NewChannelHandler creates a new channel handler. newBuffer is invoked once
// per created channel.
func NewChannelHandler(newBuffer func() *simplepush.Buffer) *ChannelHandler {
	return &ChannelHandler{
		channels:  make(map[uuid.UUID]*Channel),
		newBuffer: newBuffer,
	}
}

// Routes returns the routes for channels
func (h *ChannelHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateChannel)
	r.Get("/{channelID}", h.GetChannel)
	r.Delete("/{channelID}", h.DeleteChannel)

	r.Post("/{channelID}/parts", h.PushPart)
	r.Get("/{channelID}/stream", h.StreamChannel)

	return r
}

// ChannelResponse is the response body for a channel
type ChannelResponse struct {
	ID        string    `json:"id"`
	Boundary  string    `json:"boundary"`
	Encoding  string    `json:"encoding"`
	Queued    int       `json:"queued"`
	Started   bool      `json:"started"`
	CreatedAt time.Time `json:"created_at"`
}

// PushPartRequest is the request body for enqueueing a part
type PushPartRequest struct {
	MimeType string `json:"mime_type"`

	// Data carries an inline value: JSON strings become text payloads,
	// objects and arrays stay structured for JSON mimetypes.
	Data json.RawMessage `json:"data,omitempty"`

	// DataBase64 carries inline binary payloads.
	DataBase64 string `json:"data_base64,omitempty"`

	// Resource names a stored resource to read instead of inline data.
	Resource string `json:"resource,omitempty"`

	// Encoding optionally overrides the buffer encoding for this part.
	Encoding string `json:"encoding,omitempty"`
}

// CreateChannel creates a new push channel wrapping a fresh buffer
func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	ch := &Channel{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		buffer:    h.newBuffer(),
	}

	h.mu.Lock()
	h.channels[ch.ID] = ch
	h.mu.Unlock()

	slog.Info("Channel created", "channel_id", ch.ID)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, h.channelResponse(ch))
}

// GetChannel returns the channel's current status
func (h *ChannelHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.lookup(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.channelResponse(ch))
}

// DeleteChannel ends the channel's session and drops it
func (h *ChannelHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.lookup(w, r)
	if !ok {
		return
	}

	ch.mu.Lock()
	ch.buffer.Finish()
	ch.mu.Unlock()

	h.mu.Lock()
	delete(h.channels, ch.ID)
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// PushPart enqueues one part on the channel's buffer
func (h *ChannelHandler) PushPart(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req PushPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pushReq := simplepush.PushRequest{
		MimeType: req.MimeType,
		Resource: req.Resource,
		Encoding: req.Encoding,
	}

	if req.DataBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(req.DataBase64)
		if err != nil {
			http.Error(w, "invalid base64 data", http.StatusBadRequest)
			return
		}
		pushReq.Data = raw
	} else if len(req.Data) > 0 {
		var v any
		if err := json.Unmarshal(req.Data, &v); err != nil {
			http.Error(w, "invalid data value", http.StatusBadRequest)
			return
		}
		pushReq.Data = v
	}

	ch.mu.Lock()
	err := ch.buffer.Push(r.Context(), pushReq)
	queued := ch.buffer.Len()
	ch.mu.Unlock()

	if err != nil {
		slog.Error("Push failed", "channel_id", ch.ID, "mime_type", req.MimeType, "error", err)
		http.Error(w, err.Error(), pushStatus(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{"queued": queued})
}

// StreamChannel drains the channel's buffer as one multipart/mixed stream,
// flushing each pulled chunk to the client as it is assembled.
func (h *ChannelHandler) StreamChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.lookup(w, r)
	if !ok {
		return
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	flusher, _ := w.(http.Flusher)

	w.Header().Set("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", ch.buffer.Boundary()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		chunk, err := ch.buffer.Pull()
		if err != nil {
			slog.Error("Pull failed", "channel_id", ch.ID, "error", err)
			return
		}
		if len(chunk) == 0 {
			break
		}
		if _, err := w.Write(chunk); err != nil {
			slog.Warn("Client went away mid-stream", "channel_id", ch.ID, "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if _, err := w.Write(ch.buffer.Finish()); err != nil {
		return
	}
	if flusher != nil {
		flusher.Flush()
	}
}

func (h *ChannelHandler) channelResponse(ch *Channel) ChannelResponse {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ChannelResponse{
		ID:        ch.ID.String(),
		Boundary:  ch.buffer.Boundary(),
		Encoding:  ch.buffer.Encoding(),
		Queued:    ch.buffer.Len(),
		Started:   ch.buffer.Started(),
		CreatedAt: ch.CreatedAt,
	}
}

func (h *ChannelHandler) lookup(w http.ResponseWriter, r *http.Request) (*Channel, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "channelID"))
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return nil, false
	}

	h.mu.RLock()
	ch, exists := h.channels[id]
	h.mu.RUnlock()

	if !exists {
		http.Error(w, "Channel not found", http.StatusNotFound)
		return nil, false
	}
	return ch, true
}

func pushStatus(err error) int {
	switch {
	case errors.Is(err, simplepush.ErrMissingMimeType),
		errors.Is(err, simplepush.ErrNoSource):
		return http.StatusBadRequest
	case errors.Is(err, simplepush.ErrResourceNotFound):
		return http.StatusNotFound
	default:
		var encErr *simplepush.EncodingError
		if errors.As(err, &encErr) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusInternalServerError
	}
}
