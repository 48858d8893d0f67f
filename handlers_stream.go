package main

import (
	"context"
	"encoding/json"
	"net/http"
)

// handleTickerStream sends ticker events as Server-Sent Events until the
// client goes away or the session is disposed.
func (a *App) handleTickerStream(w http.ResponseWriter, r *http.Request) {
	d := mustDashboard(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-d.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	ch := d.Ticker().Subscribe(ctx)

	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for evt := range ch {
		payload, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("event: tick\ndata: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
