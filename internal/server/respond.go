package server

import (
	"encoding/json"
	"net/http"
)

// Messages returned in error bodies
const (
	msgNotLoggedIn    = "You must be logged in to do this"
	msgNotInstalled   = "You must install the app first"
	msgSomethingWrong = "Something went wrong"
	msgFetchFailed    = "Could not fetch data from Squadcast"
	msgAddFailed      = "Could not add this SquadCast account"
	msgNotFound       = "Not found"
	msgMethod         = "Method not allowed"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Message string `json:"message"`
}

// URLBody carries a redirect target for the client
type URLBody struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{Message: message})
}

// decodeJSON reads a request body of at most 1 MiB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
