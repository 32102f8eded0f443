package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/ignitionstack/fnctl/pkg/types"
)

// CallCounts tracks the requests received per route
type CallCounts struct {
	List    int
	Create  int
	Update  []int
	Delete  []int
	Run     []int
	Metrics int
}

// RunResult configures what a run of a given function returns
type RunResult struct {
	Output string
	Status int
	Detail string
}

// FakeBackend is an in-memory implementation of the function backend HTTP API
// for tests. It mirrors the routes and error bodies of the real service.
type FakeBackend struct {
	server *httptest.Server
	mutex  sync.Mutex

	functions map[int]types.Function
	nextID    int
	metrics   []types.ExecutionMetric
	runs      map[int]RunResult

	calls      CallCounts
	requestIDs []string

	// Behavior lets a test force failures, keyed by route name: list,
	// create, update, delete, run or metrics.
	Behavior struct {
		FailWith map[string]RunResult
	}
}

// NewFakeBackend starts a fake backend server
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		functions: make(map[int]types.Function),
		nextID:    1,
		runs:      make(map[int]RunResult),
	}
	b.Behavior.FailWith = make(map[string]RunResult)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /functions/{$}", b.handleList)
	mux.HandleFunc("POST /functions/{$}", b.handleCreate)
	mux.HandleFunc("PUT /functions/{id}", b.handleUpdate)
	mux.HandleFunc("DELETE /functions/{id}", b.handleDelete)
	mux.HandleFunc("POST /functions/{id}/run", b.handleRun)
	mux.HandleFunc("GET /metrics", b.handleMetrics)

	b.server = httptest.NewServer(b.record(mux))
	return b
}

// URL returns the base URL of the server
func (b *FakeBackend) URL() string {
	return b.server.URL
}

// Close shuts the server down
func (b *FakeBackend) Close() {
	b.server.Close()
}

// Seed adds functions with their given IDs
func (b *FakeBackend) Seed(functions ...types.Function) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, fn := range functions {
		b.functions[fn.ID] = fn
		if fn.ID >= b.nextID {
			b.nextID = fn.ID + 1
		}
	}
}

// SeedMetrics sets the execution log served by /metrics
func (b *FakeBackend) SeedMetrics(records ...types.ExecutionMetric) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.metrics = append(b.metrics, records...)
}

// SetRun configures the result of running function id
func (b *FakeBackend) SetRun(id int, result RunResult) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.runs[id] = result
}

// Fail makes every request to route fail with status and detail
func (b *FakeBackend) Fail(route string, status int, detail string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.Behavior.FailWith[route] = RunResult{Status: status, Detail: detail}
}

// Recover clears a failure set with Fail
func (b *FakeBackend) Recover(route string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	delete(b.Behavior.FailWith, route)
}

// Function returns the stored function with the given ID
func (b *FakeBackend) Function(id int) (types.Function, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	fn, ok := b.functions[id]
	return fn, ok
}

// Calls returns a copy of the call counters
func (b *FakeBackend) Calls() CallCounts {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	out := b.calls
	out.Update = append([]int(nil), b.calls.Update...)
	out.Delete = append([]int(nil), b.calls.Delete...)
	out.Run = append([]int(nil), b.calls.Run...)
	return out
}

// RequestIDs returns the X-Request-ID of every request received
func (b *FakeBackend) RequestIDs() []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return append([]string(nil), b.requestIDs...)
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mutex.Lock()
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		b.mutex.Unlock()
		next.ServeHTTP(w, r)
	})
}

// failure reports whether the route is configured to fail and writes the error
func (b *FakeBackend) failure(w http.ResponseWriter, route string) bool {
	result, ok := b.Behavior.FailWith[route]
	if !ok {
		return false
	}
	writeDetail(w, result.Status, result.Detail)
	return true
}

func (b *FakeBackend) handleList(w http.ResponseWriter, _ *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.List++
	if b.failure(w, "list") {
		return
	}

	ids := make([]int, 0, len(b.functions))
	for id := range b.functions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]types.Function, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.functions[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.Create++
	if b.failure(w, "create") {
		return
	}

	var draft types.FunctionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	fn := draft.WithID(b.nextID)
	b.nextID++
	b.functions[fn.ID] = fn
	writeJSON(w, http.StatusOK, fn)
}

func (b *FakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.calls.Update = append(b.calls.Update, id)
	if b.failure(w, "update") {
		return
	}

	if _, exists := b.functions[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Function not found")
		return
	}

	var fn types.Function
	if err := json.NewDecoder(r.Body).Decode(&fn); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	fn.ID = id
	b.functions[id] = fn
	writeJSON(w, http.StatusOK, fn)
}

func (b *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.calls.Delete = append(b.calls.Delete, id)
	if b.failure(w, "delete") {
		return
	}

	if _, exists := b.functions[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Function not found")
		return
	}
	delete(b.functions, id)
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Function deleted successfully"})
}

func (b *FakeBackend) handleRun(w http.ResponseWriter, r *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b.calls.Run = append(b.calls.Run, id)
	if b.failure(w, "run") {
		return
	}

	if _, exists := b.functions[id]; !exists {
		writeDetail(w, http.StatusNotFound, "Function not found")
		return
	}

	result, configured := b.runs[id]
	if !configured {
		writeDetail(w, http.StatusBadRequest, "No code found for this function.")
		return
	}
	if result.Status != 0 && result.Status != http.StatusOK {
		writeDetail(w, result.Status, result.Detail)
		return
	}
	writeJSON(w, http.StatusOK, types.RunResponse{Output: result.Output})
}

func (b *FakeBackend) handleMetrics(w http.ResponseWriter, r *http.Request) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.calls.Metrics++
	if b.failure(w, "metrics") {
		return
	}

	query := r.URL.Query()
	out := make([]types.ExecutionMetric, 0, len(b.metrics))
	for _, m := range b.metrics {
		if runtime := query.Get("runtime"); runtime != "" && m.Runtime != runtime {
			continue
		}
		if success := query.Get("success"); success != "" && strconv.FormatBool(m.Success) != success {
			continue
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, out)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid function id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
