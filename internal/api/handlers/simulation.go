package handlers

import (
	"log"

	"qbit-secure/internal/services"

	"github.com/gin-gonic/gin"
)

type SimulationHandler struct {
	simulationService *services.SimulationService
}

func NewSimulationHandler() *SimulationHandler {
	return &SimulationHandler{
		simulationService: services.NewSimulationService(),
	}
}

type FullSimulationRequest struct {
	NumQubits int `json:"numQubits"`
}

// RunFull executes the full multi-protocol key generation run. Degrades to
// a canned fallback payload on failure.
func (h *SimulationHandler) RunFull(c *gin.Context) {
	var req FullSimulationRequest
	_ = c.ShouldBindJSON(&req)

	userID := c.GetUint("user_id")

	result, err := h.simulationService.RunFullSimulation(userID, req.NumQubits)
	if err != nil {
		log.Printf("full simulation error: %v", err)
		fallback := h.simulationService.FallbackSimulation()
		c.JSON(200, gin.H{
			"keys":           fallback.Keys,
			"entropy":        fallback.Entropy,
			"qber":           fallback.QBER,
			"execution_time": fallback.ExecutionTime,
			"timestamp":      fallback.Timestamp,
			"fallback":       true,
		})
		return
	}

	c.JSON(200, result)
}
