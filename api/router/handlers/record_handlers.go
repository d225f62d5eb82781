package handlers

import (
	"errors"
	"net/http"

	"estateadmin/core"

	"github.com/go-chi/chi/v5"
)

// GetRecordHandler returns one entity of a screen's collection.
func GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := lookupScreen(w, r)
	if !ok {
		return
	}
	row, err := deps.Store.Record(r.Context(), mustSession(r), screen, chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, "GetRecordHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// ProfileHandler returns the signed-in user's profile.
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	row, err := deps.Store.Profile(r.Context(), mustSession(r))
	if errors.Is(err, core.ErrNoProfile) {
		writeError(w, http.StatusNotFound, "No profile is linked to this session.")
		return
	}
	if err != nil {
		writeFailure(w, r, "ProfileHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// PropertyDetailHandler returns a master-plan development with its units.
func PropertyDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := deps.Store.PropertyDetail(r.Context(), mustSession(r), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, "PropertyDetailHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// AddUnitHandler adds a unit to a master-plan development.
func AddUnitHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(w, r)
	if err != nil {
		writeSubmissionError(w, "AddUnitHandler", err)
		return
	}
	defer sub.close()

	res, err := deps.Store.AddUnit(r.Context(), mustSession(r), chi.URLParam(r, "id"), sub.fields)
	if err != nil {
		writeFailure(w, r, "AddUnitHandler", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
