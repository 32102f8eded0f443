package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ignitionstack/fnctl/internal/cache"
	"github.com/ignitionstack/fnctl/pkg/apiclient"
	fnerrors "github.com/ignitionstack/fnctl/pkg/errors"
	"github.com/ignitionstack/fnctl/pkg/logging"
	"github.com/ignitionstack/fnctl/pkg/types"
)

// Field names accepted by SetDraftField and UpdateEditField
const (
	FieldName     = "name"
	FieldRoute    = "route"
	FieldLanguage = "language"
	FieldTimeout  = "timeout"
	FieldFilename = "filename"
)

// EditableFields lists every field that can be set by name
var EditableFields = []string{FieldName, FieldRoute, FieldLanguage, FieldTimeout, FieldFilename}

// EditSession is the working copy of a function being edited
type EditSession struct {
	ID    int
	Draft types.FunctionDraft
}

// RegistryClient keeps a local copy of the function catalog in sync with the
// backend and owns the new-function draft and the edit session.
type RegistryClient struct {
	client apiclient.Client
	store  cache.Store
	logger logging.Logger

	mutex     sync.Mutex
	functions []types.Function
	draft     types.FunctionDraft
	session   *EditSession
}

// NewRegistryClient creates a registry client with an empty catalog and a
// default draft
func NewRegistryClient(client apiclient.Client, store cache.Store, logger logging.Logger) *RegistryClient {
	if store == nil {
		store = cache.NopStore{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &RegistryClient{
		client: client,
		store:  store,
		logger: logger,
		draft:  types.NewFunctionDraft(),
	}
}

// Load fetches the catalog and replaces the local copy. On failure the
// previous catalog is kept.
func (r *RegistryClient) Load(ctx context.Context) error {
	functions, err := r.client.ListFunctions(ctx)
	if err != nil {
		r.logger.Errorf("Error loading functions: %v", err)
		return fmt.Errorf("failed to load functions: %w", err)
	}

	r.mutex.Lock()
	r.functions = functions
	r.mutex.Unlock()

	if err := r.store.SaveCatalog(functions); err != nil {
		r.logger.Debugf("Could not cache catalog: %v", err)
	}

	return nil
}

// Restore seeds the catalog from the last cached snapshot. It returns false
// when no snapshot exists.
func (r *RegistryClient) Restore() bool {
	snapshot, err := r.store.LoadCatalog()
	if err != nil {
		if !fnerrors.IsSnapshotNotFound(err) {
			r.logger.Debugf("Could not read cached catalog: %v", err)
		}
		return false
	}

	r.mutex.Lock()
	r.functions = snapshot.Functions
	r.mutex.Unlock()

	return true
}

// Create submits the current draft as is. On success the draft is reset and
// the catalog reloaded.
func (r *RegistryClient) Create(ctx context.Context) error {
	draft := r.Draft()

	created, err := r.client.CreateFunction(ctx, draft)
	if err != nil {
		r.logger.Errorf("Error creating function: %v", err)
		return fmt.Errorf("failed to create function: %w", err)
	}
	r.logger.Debugf("Created function %d (%s)", created.ID, created.Name)

	r.mutex.Lock()
	r.draft = types.NewFunctionDraft()
	r.mutex.Unlock()

	r.reload(ctx)
	return nil
}

// Draft returns a copy of the new-function draft
func (r *RegistryClient) Draft() types.FunctionDraft {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.draft
}

// SetDraft replaces the new-function draft
func (r *RegistryClient) SetDraft(draft types.FunctionDraft) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.draft = draft
}

// SetDraftField sets one named field of the new-function draft
func (r *RegistryClient) SetDraftField(field, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return setField(&r.draft, field, value)
}

// BeginEdit opens an edit session on a copy of a cataloged function. An
// already open session is replaced.
func (r *RegistryClient) BeginEdit(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	fn, ok := r.lookup(id)
	if !ok {
		r.logger.Errorf("Cannot edit function %d: not in catalog", id)
		return fnerrors.AsOperationError(fnerrors.ErrFunctionNotInCatalog, "edit", id)
	}

	r.session = &EditSession{ID: id, Draft: fn.Draft()}
	return nil
}

// UpdateEditField sets one named field of the open edit session
func (r *RegistryClient) UpdateEditField(field, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.session == nil {
		return fnerrors.ErrNoEditSession
	}

	return setField(&r.session.Draft, field, value)
}

// SaveEdit sends the edit session to the backend. The session closes and the
// catalog reloads only when the update succeeds.
func (r *RegistryClient) SaveEdit(ctx context.Context) error {
	r.mutex.Lock()
	if r.session == nil {
		r.mutex.Unlock()
		return fnerrors.ErrNoEditSession
	}
	session := *r.session
	r.mutex.Unlock()

	if _, err := r.client.UpdateFunction(ctx, session.Draft.WithID(session.ID)); err != nil {
		r.logger.Errorf("Error updating function %d: %v", session.ID, err)
		return fnerrors.AsOperationError(err, "update", session.ID)
	}

	r.mutex.Lock()
	if r.session != nil && r.session.ID == session.ID {
		r.session = nil
	}
	r.mutex.Unlock()

	r.reload(ctx)
	return nil
}

// CancelEdit discards the edit session without contacting the backend
func (r *RegistryClient) CancelEdit() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.session = nil
}

// Delete removes a cataloged function and reloads the catalog. A failed
// request leaves the catalog untouched.
func (r *RegistryClient) Delete(ctx context.Context, id int) error {
	r.mutex.Lock()
	_, ok := r.lookup(id)
	r.mutex.Unlock()
	if !ok {
		r.logger.Errorf("Cannot delete function %d: not in catalog", id)
		return fnerrors.AsOperationError(fnerrors.ErrFunctionNotInCatalog, "delete", id)
	}

	if err := r.client.DeleteFunction(ctx, id); err != nil {
		r.logger.Errorf("Error deleting function %d: %v", id, err)
		return fnerrors.AsOperationError(err, "delete", id)
	}

	r.reload(ctx)
	return nil
}

// reload refreshes the catalog after a successful mutation. A failed reload
// is logged by Load and keeps the previous catalog.
func (r *RegistryClient) reload(ctx context.Context) {
	_ = r.Load(ctx)
}

// Functions returns a copy of the local catalog
func (r *RegistryClient) Functions() []types.Function {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := make([]types.Function, len(r.functions))
	copy(out, r.functions)
	return out
}

// Lookup returns the cataloged function with the given ID
func (r *RegistryClient) Lookup(id int) (types.Function, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.lookup(id)
}

// EditSession returns a copy of the open edit session, if any
func (r *RegistryClient) EditSession() (EditSession, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.session == nil {
		return EditSession{}, false
	}
	return *r.session, true
}

// lookup must be called with the mutex held
func (r *RegistryClient) lookup(id int) (types.Function, bool) {
	for _, fn := range r.functions {
		if fn.ID == id {
			return fn, true
		}
	}
	return types.Function{}, false
}

func setField(draft *types.FunctionDraft, field, value string) error {
	switch strings.ToLower(field) {
	case FieldName:
		draft.Name = value
	case FieldRoute:
		draft.Route = value
	case FieldLanguage:
		draft.Language = value
	case FieldFilename:
		draft.Filename = value
	case FieldTimeout:
		timeout, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fnerrors.WithDetails(fnerrors.ErrInvalidFieldValue, fmt.Sprintf("timeout must be an integer, got %q", value))
		}
		draft.Timeout = timeout
	default:
		return fnerrors.WithDetails(fnerrors.ErrUnknownField, field)
	}
	return nil
}
