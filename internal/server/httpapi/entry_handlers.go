package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/server/auth"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/gorilla/mux"
)

// owner returns the id of the authenticated account. authenticate guarantees
// it is present on every route these handlers are mounted on.
func (a *API) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return "", false
	}
	return account.ID, true
}

func (a *API) listEntries(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	list, err := a.entries.List(r.Context(), owner)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	e, err := a.entries.Get(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) createEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	var in models.EntryInput
	if !decodeJSON(w, r, &in, maxBodyBytes) {
		return
	}
	e, err := a.entries.Create(r.Context(), owner, &in)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) updateEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	var in models.EntryInput
	if !decodeJSON(w, r, &in, maxBodyBytes) {
		return
	}
	e, err := a.entries.Update(r.Context(), owner, mux.Vars(r)["id"], &in)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) deleteEntry(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	if err := a.entries.Delete(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) exportEntries(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	list, err := a.entries.Export(r.Context(), owner)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// importEntries accepts either a bare array of entries or {"entries": [...]}.
func (a *API) importEntries(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}

	var body json.RawMessage
	if !decodeJSON(w, r, &body, maxImportBodyBytes) {
		return
	}

	items, ok := importItems(body)
	if !ok {
		verr := common.NewValidationError()
		verr.Add("entries", "must be an array")
		a.writeServiceError(w, r, verr)
		return
	}

	res, err := a.entries.Import(r.Context(), owner, items)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.log.Info(r.Context(), "entries imported", "account_id", owner, "count", res.InsertedCount)
	writeJSON(w, http.StatusOK, res)
}

func importItems(body json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	var items []json.RawMessage

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false
		}
		return items, true
	}

	var wrapped struct {
		Entries *[]json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Entries == nil {
		return nil, false
	}
	return *wrapped.Entries, true
}

func (a *API) archiveExport(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.owner(w, r)
	if !ok {
		return
	}
	res, err := a.entries.ArchiveExport(r.Context(), owner)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
