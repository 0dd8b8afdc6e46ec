package httpx

import (
	"net/http"
)

// healthResponse is the liveness payload.
type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// healthHandler answers liveness checks with the number of cached client sessions.
func healthHandler(sessions func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		resp := healthResponse{Status: "ok"}
		if sessions != nil {
			resp.Sessions = sessions()
		}
		w.Header().Set("Cache-Control", "no-store")
		WriteJSON(w, http.StatusOK, resp)
	}
}
