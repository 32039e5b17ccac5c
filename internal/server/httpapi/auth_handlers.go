package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/dailyjournal/internal/server/auth"
)

type registerRequest struct {
	DisplayName string `json:"displayName"`
	// Username is accepted as an alias of DisplayName.
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type focusAreasRequest struct {
	FocusAreas []string `json:"focusAreas"`
}

type accountResponse struct {
	Account any `json:"account"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req, maxBodyBytes) {
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	res, err := a.accounts.Register(r.Context(), req.DisplayName, req.Email, req.Password)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	a.log.Info(r.Context(), "account registered", "account_id", res.Account.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req, maxBodyBytes) {
		return
	}

	res, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Account: account})
}

func (a *API) updateFocusAreas(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req focusAreasRequest
	if !decodeJSON(w, r, &req, maxBodyBytes) {
		return
	}

	updated, err := a.accounts.UpdateFocusAreas(r.Context(), account.ID, req.FocusAreas)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Account: updated})
}
