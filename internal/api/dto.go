package api

import (
	"encoding/json"
	"net/http"
)

// GameDTO is a game as the API reports it.
type GameDTO struct {
	GameToken    string   `json:"gameToken"`
	PlayerTokens []string `json:"playerTokens"`
}

type GamesDTO struct {
	GameTokens []GameDTO `json:"gameTokens"`
}

type listResponse struct {
	Games GamesDTO `json:"games"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
