package controllers

import (
	"encoding/json"
	"net/http"

	"afaq/afaq/types"
)

type HealthController struct {
	message string
}

func NewHealthController() *HealthController {
	return &HealthController{message: "Afaq Tours Chatbot API is running."}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(types.HealthResponse{Status: "ok", Message: h.message})
}
