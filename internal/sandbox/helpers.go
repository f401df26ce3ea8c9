package sandbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type ResponseError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func SendErr(ctx context.Context, w http.ResponseWriter, code int, msg string) {
	slog.DebugContext(ctx, "sandbox api error", "code", code, "message", msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(ResponseError{Message: msg})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
