package handlers

import (
	"log"

	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

type SecurityHandler struct {
	simulationService *services.SimulationService
}

func NewSecurityHandler() *SecurityHandler {
	return &SecurityHandler{
		simulationService: services.NewSimulationService(),
	}
}

type EavesdroppingRequest struct {
	NumQubits int `json:"num_qubits"`
	NumBits   int `json:"num_bits"`
}

// DetectEavesdropping runs the detection check. The data is illustrative,
// so a failed run degrades to a random fallback payload instead of a 500.
func (h *SecurityHandler) DetectEavesdropping(c *gin.Context) {
	var req EavesdroppingRequest
	// missing or malformed body falls back to the defaults
	_ = c.ShouldBindJSON(&req)

	userID := c.GetUint("user_id")

	result, err := h.simulationService.DetectEavesdropping(userID, req.NumQubits, req.NumBits)
	if err != nil {
		log.Printf("eavesdropping detection error: %v", err)
		fallback := h.simulationService.FallbackEavesdropping()
		c.JSON(200, gin.H{
			"eavesdropping_detected": fallback.EavesdroppingDetected,
			"qber":                   fallback.QBER,
			"confidence":             fallback.Confidence,
			"eve_strategy":           fallback.EveStrategy,
			"affected_qubits":        fallback.AffectedQubits,
			"error_rates":            fallback.ErrorRates,
			"plots":                  fallback.Plots,
			"timestamp":              fallback.Timestamp,
			"fallback":               true,
		})
		return
	}

	c.JSON(200, result)
}
