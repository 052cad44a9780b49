package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	JSONContentType = "application/json"
	HTMLContentType = "text/html"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RenderFatal(w http.ResponseWriter, err error) {
	RenderError(w, err, http.StatusInternalServerError)
}

func RenderError(w http.ResponseWriter, err error, statusCode int) {
	RenderJSON(w, statusCode, ErrorResponse{Error: err.Error()})
}

func RenderSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// RenderJSON writes data with the given status code.
func RenderJSON(w http.ResponseWriter, statusCode int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", JSONContentType)
		http.Error(w, fmt.Sprintf(`{"error": %q}`, "failed to marshal data"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(statusCode)
	_, _ = w.Write(jsonData)
}

func RenderJSONResponse(w http.ResponseWriter, data any) {
	RenderJSON(w, http.StatusOK, data)
}
