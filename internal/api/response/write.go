package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// BoardJSON writes a board as a JSON response
func BoardJSON(w http.ResponseWriter, status int, b Board) {
	w.Header().Set("ETag", etag(b.Version))
	JSON(w, status, b)
}

func etag(version int64) string {
	return `W/"` + strconv.FormatInt(version, 10) + `"`
}
