package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"estateadmin/core"
	"estateadmin/database"
	"estateadmin/logger"
	"estateadmin/models"

	"github.com/go-chi/chi/v5"
)

// InquiryReplyEmailHandler sends the reply email for an inquiry without touching
// its status.
func InquiryReplyEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req models.InquiryReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("InquiryReplyEmailHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := deps.Notifier.SendInquiryReply(r.Context(), req); err != nil {
		writeEmailFailure(w, r, "InquiryReplyEmailHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Email sent successfully!"})
}

// PropertyBroadcastEmailHandler emails a property to every distinct subscriber.
func PropertyBroadcastEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PropertyBroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("PropertyBroadcastEmailHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	result, err := deps.Notifier.BroadcastProperty(r.Context(), req)
	if err != nil {
		logger.MailError("PropertyBroadcastEmailHandler: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": "Failed to send emails",
			"result":  result,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Emails sent successfully!",
		"result":  result,
	})
}

// ReplyToInquiryHandler marks an inquiry replied and emails the reply.
func ReplyToInquiryHandler(w http.ResponseWriter, r *http.Request) {
	var req models.InquiryReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := deps.Notifier.ReplyToInquiry(r.Context(), mustSession(r), id, req); err != nil {
		writeEmailFailure(w, r, "ReplyToInquiryHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Reply sent successfully."})
}

// PublishPropertyHandler validates and creates a property, then notifies the
// subscribers about it.
func PublishPropertyHandler(w http.ResponseWriter, r *http.Request) {
	screen, ok := deps.Screens.Get("properties")
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown screen: properties")
		return
	}
	sub, err := readSubmission(w, r)
	if err != nil {
		writeSubmissionError(w, "PublishPropertyHandler", err)
		return
	}
	defer sub.close()

	hasPlan := false
	for _, f := range sub.files {
		if f.Field == "property_plan_image" {
			hasPlan = true
		}
	}
	if err := core.ValidatePropertyForm(sub.fields, hasPlan); err != nil {
		writeFailure(w, r, "PublishPropertyHandler", err)
		return
	}

	created, broadcast, err := deps.Notifier.PublishProperty(r.Context(), mustSession(r), screen, sub.fields, sub.files)
	if err != nil {
		writeFailure(w, r, "PublishPropertyHandler", err)
		return
	}
	sess := mustSession(r)
	if err := database.DeleteDraft(sess.ID, models.PropertyDraftFormKey); err != nil {
		logger.Error("PublishPropertyHandler: clearing draft: %v", err)
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   created.Message,
		"record":    created.Record,
		"broadcast": broadcast,
	})
}

// TestEmailHandler sends a sample email to check the mail settings.
func TestEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := deps.Notifier.SendTest(r.Context(), req.To); err != nil {
		writeEmailFailure(w, r, "TestEmailHandler", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Status: "success", Message: "Test email sent."})
}

// EmailLogHandler pages through the send history.
func EmailLogHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	entries, total, err := database.GetEmailLogPaginated(q.Get("kind"), limit, offset)
	if err != nil {
		logger.Error("EmailLogHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load email log")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// writeEmailFailure reports a send failure the way the mail relay always has:
// a generic 500 unless the request itself was at fault.
func writeEmailFailure(w http.ResponseWriter, r *http.Request, handler string, err error) {
	switch {
	case core.IsValidation(err), isInvalidEmail(err), isBackend(err):
		writeFailure(w, r, handler, err)
	default:
		logger.MailError("%s: %v", handler, err)
		writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Status: "error", Message: "Failed to send email"})
	}
}
