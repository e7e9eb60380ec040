package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/logger"
)

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.svc.Stats(r.Context())
	if err != nil {
		logger.Error(r.Context(), "dashboard stats", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": apperr.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
