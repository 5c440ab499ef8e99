package rest

import (
	"encoding/json"
	"net/http"
)

func (that *Server) stateHandler(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "stateHandler")

	game := that.state.Snapshot()
	if game == nil {
		http.Error(w, "game is not loaded yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(game); err != nil {
		log.Error("failed to encode game", "error", err)
	}
}
