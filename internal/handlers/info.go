package handlers

import (
	"net/http"

	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// InfoResponse is the root endpoint payload pointing callers at the API.
type InfoResponse struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Health      string `json:"health"`
}

// Info returns the root handler announcing the running service.
func Info(env, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteJSON(w, http.StatusOK, InfoResponse{
			Message:     "Twendy API está rodando!",
			Version:     version,
			Environment: env,
			Health:      "/health",
		})
	}
}
