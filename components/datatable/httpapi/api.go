package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Session   gocommand.Commander[commands.SessionInput]
	Mount     gocommand.Commander[commands.MountTableInput]
	Reorder   gocommand.Commander[commands.ReorderRowsInput]
	Selection gocommand.Commander[commands.ToggleSelectionInput]
	Update    gocommand.Commander[commands.UpdateViewInput]
	Rows      gocommand.Commander[commands.MutateRowInput]
	Refresh   gocommand.Commander[commands.RefreshTableInput]
	View      gocommand.Querier[queries.TableViewInput, datatable.ViewPayload]
	Summary   gocommand.Querier[datatable.TableRef, datatable.SelectionSummary]
}

// Register binds the handlers to mux using path wildcards.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.HandleOpenSession)
	mux.HandleFunc("DELETE /sessions/{session}", h.HandleCloseSession)
	mux.HandleFunc("POST /sessions/{session}/tables/{table}", h.withRef(h.HandleMount))
	mux.HandleFunc("DELETE /sessions/{session}/tables/{table}", h.withRef(h.HandleUnmount))
	mux.HandleFunc("GET /sessions/{session}/tables/{table}", h.withRef(h.HandleView))
	mux.HandleFunc("GET /sessions/{session}/tables/{table}/selection", h.withRef(h.HandleSelectionSummary))
	mux.HandleFunc("POST /sessions/{session}/tables/{table}/selection", h.withRef(h.HandleSelection))
	mux.HandleFunc("POST /sessions/{session}/tables/{table}/drag", h.withRef(h.HandleDrag))
	mux.HandleFunc("PATCH /sessions/{session}/tables/{table}/view", h.withRef(h.HandleUpdateView))
	mux.HandleFunc("POST /sessions/{session}/tables/{table}/rows", h.withRef(h.HandleMutateRow))
	mux.HandleFunc("POST /sessions/{session}/tables/{table}/refresh", h.withRef(h.HandleRefresh))
}

func (h *Handlers) withRef(fn func(http.ResponseWriter, *http.Request, datatable.TableRef)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, datatable.TableRef{SessionID: r.PathValue("session"), Table: r.PathValue("table")})
	}
}

func (h *Handlers) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	var payload commands.SessionInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	payload.Close = false
	var id string
	payload.Result = &id
	if err := h.Session.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handlers) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	input := commands.SessionInput{SessionID: r.PathValue("session"), Close: true}
	if err := h.Session.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleMount(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	if err := h.Mount.Execute(r.Context(), commands.MountTableInput{Ref: ref}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleUnmount(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	if err := h.Mount.Execute(r.Context(), commands.MountTableInput{Ref: ref, Unmount: true}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	payload, err := h.View.Query(r.Context(), queries.TableViewInput{Ref: ref, Locale: r.URL.Query().Get("locale")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) HandleSelectionSummary(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	summary, err := h.Summary.Query(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) HandleSelection(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	var payload commands.ToggleSelectionInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Ref = ref
	if err := h.Selection.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleDrag(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	var payload commands.ReorderRowsInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Ref = ref
	if err := h.Reorder.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleUpdateView(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	var payload commands.UpdateViewInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Ref = ref
	if err := h.Update.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleMutateRow(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	var payload commands.MutateRowInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Ref = ref
	var id string
	payload.Result = &id
	if err := h.Rows.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Op == commands.RowAdd {
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request, ref datatable.TableRef) {
	var payload commands.RefreshTableInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	payload.Event.SessionID = ref.SessionID
	payload.Event.Table = ref.Table
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, datatable.ErrSessionNotFound),
		errors.Is(err, datatable.ErrTableNotMounted),
		errors.Is(err, datatable.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, datatable.ErrInvalidInput),
		errors.Is(err, datatable.ErrEmptyRowID):
		return http.StatusBadRequest
	case errors.Is(err, datatable.ErrDuplicateRowID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
