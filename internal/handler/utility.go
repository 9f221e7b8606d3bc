package handler

import (
	"net/http"
	"time"
	"unicode/utf8"

	"perfectapi/internal/service"
)

// UtilityHandler serves the status, echo and inspect endpoints.
type UtilityHandler struct {
	started time.Time
}

// NewUtilityHandler creates a new UtilityHandler.
func NewUtilityHandler() *UtilityHandler {
	return &UtilityHandler{started: time.Now()}
}

type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HandleStatus serves GET /status. It requires no authentication so probes
// can use it for readiness.
func (h *UtilityHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

type echoInput struct {
	Message   string `json:"message"`
	Repeat    *int   `json:"repeat"`
	Uppercase bool   `json:"uppercase"`
}

type echoResponse struct {
	Echoed         string `json:"echoed"`
	OriginalLength int    `json:"original_length"`
}

// HandleEcho serves POST /echo.
func (h *UtilityHandler) HandleEcho(w http.ResponseWriter, r *http.Request) {
	var in echoInput
	if err := readJSON(r, &in); err != nil {
		writeBodyError(w, r, err)
		return
	}
	if n := utf8.RuneCountInString(in.Message); n < 1 || n > 200 {
		writeProblem(w, r, http.StatusUnprocessableEntity, "message: must be between 1 and 200 characters")
		return
	}
	repeat := 1
	if in.Repeat != nil {
		repeat = *in.Repeat
	}
	if repeat < 1 || repeat > 10 {
		writeProblem(w, r, http.StatusUnprocessableEntity, "repeat: must be between 1 and 10")
		return
	}

	result := service.EchoMessage(in.Message, repeat, in.Uppercase)
	writeJSON(w, http.StatusOK, echoResponse{
		Echoed:         result.Echoed,
		OriginalLength: result.OriginalLength,
	})
}

type inspectResponse struct {
	Message       string `json:"message"`
	Mirrored      string `json:"mirrored"`
	Length        int    `json:"length"`
	IsPalindrome  bool   `json:"is_palindrome"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// HandleInspect serves GET /inspect. The case_sensitive flag is parsed
// strictly; anything other than "true" or "false" is rejected.
func (h *UtilityHandler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	message := q.Get("message")
	if n := utf8.RuneCountInString(message); n < 1 || n > 1000 {
		writeProblem(w, r, http.StatusUnprocessableEntity, "message: must be between 1 and 1000 characters")
		return
	}

	caseSensitive := true
	switch raw := q.Get("case_sensitive"); raw {
	case "", "true":
	case "false":
		caseSensitive = false
	default:
		writeProblem(w, r, http.StatusUnprocessableEntity, "case_sensitive: must be true or false")
		return
	}

	result := service.InspectMessage(message, caseSensitive)
	writeJSON(w, http.StatusOK, inspectResponse{
		Message:       result.Message,
		Mirrored:      result.Mirrored,
		Length:        result.Length,
		IsPalindrome:  result.IsPalindrome,
		CaseSensitive: result.CaseSensitive,
	})
}
