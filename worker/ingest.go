package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/snow-ghost/seeker/core"
)

// Ingestor is a simple in-memory queue and optional HTTP endpoint to submit search requests.
type Ingestor struct {
	mu     sync.Mutex
	queue  []core.SearchRequest
	search func(context.Context, core.SearchRequest) (core.SearchResult, error)
}

func NewIngestor(search func(context.Context, core.SearchRequest) (core.SearchResult, error)) *Ingestor {
	return &Ingestor{search: search, queue: make([]core.SearchRequest, 0)}
}

func (i *Ingestor) Enqueue(req core.SearchRequest) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.queue = append(i.queue, req)
}

func (i *Ingestor) Dequeue() (core.SearchRequest, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.queue) == 0 {
		return core.SearchRequest{}, false
	}
	req := i.queue[0]
	i.queue = i.queue[1:]
	return req, true
}

// ServeHTTP handles POST /search with a JSON SearchRequest and returns a SearchResult.
func (i *Ingestor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req core.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	res, err := i.search(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
