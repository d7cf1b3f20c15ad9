package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"qbit-secure/internal/models"

	"gorm.io/datatypes"
)

var simulationProtocols = []string{"BB84", "E91", "E92", "Six-State"}

var eveStrategies = []string{"intercept-resend", "entanglement", "trojan"}

type SimulationService struct {
	audit *SecurityLogService
}

func NewSimulationService() *SimulationService {
	return &SimulationService{audit: NewSecurityLogService()}
}

type EavesdroppingResult struct {
	EavesdroppingDetected bool      `json:"eavesdropping_detected"`
	QBER                  float64   `json:"qber"`
	Confidence            float64   `json:"confidence"`
	EveStrategy           string    `json:"eve_strategy"`
	AffectedQubits        int       `json:"affected_qubits"`
	ErrorRates            []float64 `json:"error_rates"`
	Plots                 []string  `json:"plots"`
	Timestamp             string    `json:"timestamp"`
}

type SimulationResult struct {
	Keys          map[string]string  `json:"keys"`
	Entropy       map[string]float64 `json:"entropy"`
	QBER          float64            `json:"qber"`
	ExecutionTime float64            `json:"execution_time"`
	Timestamp     string             `json:"timestamp"`
}

// randomKey builds a random bit string of the given length.
func randomKey(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		if rand.Intn(2) == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// DetectEavesdropping draws a random QBER and reports a detection verdict.
// The values are illustrative, not a channel simulation.
func (s *SimulationService) DetectEavesdropping(userID uint, numQubits, numBits int) (*EavesdroppingResult, error) {
	if numQubits <= 0 {
		numQubits = 5
	}
	if numBits <= 0 {
		numBits = 100
	}

	qber := rand.Float64() * 0.3
	detected := qber > 0.15

	confidence := 0.0
	strategy := "None"
	affectedQubits := 0
	if detected {
		confidence = qber * 6.67
		if confidence > 1.0 {
			confidence = 1.0
		}
		strategy = eveStrategies[rand.Intn(len(eveStrategies))]
		affectedQubits = 1 + rand.Intn(numQubits)
	}

	errorRates := make([]float64, 5)
	for i := range errorRates {
		errorRates[i] = rand.Float64() * 0.3
	}

	description := "Eavesdropping detection completed, no threats found"
	severity := models.SeverityInfo
	if detected {
		description = fmt.Sprintf("Potential eavesdropping detected with %.0f%% confidence", confidence*100)
		severity = models.SeverityAlert
	}

	s.audit.Append(&userID, models.EventSecurity, description, severity, "", map[string]interface{}{
		"qber":            qber,
		"confidence":      confidence,
		"eve_strategy":    strategy,
		"affected_qubits": affectedQubits,
		"num_qubits":      numQubits,
		"num_bits":        numBits,
	})

	return &EavesdroppingResult{
		EavesdroppingDetected: detected,
		QBER:                  qber,
		Confidence:            confidence,
		EveStrategy:           strategy,
		AffectedQubits:        affectedQubits,
		ErrorRates:            errorRates,
		Plots:                 []string{},
		Timestamp:             time.Now().Format(time.RFC3339),
	}, nil
}

// FallbackEavesdropping produces a random payload used when the detection
// path fails; the handler marks it with fallback:true.
func (s *SimulationService) FallbackEavesdropping() *EavesdroppingResult {
	errorRates := make([]float64, 5)
	for i := range errorRates {
		errorRates[i] = rand.Float64() * 0.3
	}
	strategies := []string{"None", "intercept-resend", "entanglement"}
	return &EavesdroppingResult{
		EavesdroppingDetected: rand.Float64() > 0.7,
		QBER:                  rand.Float64() * 0.3,
		Confidence:            rand.Float64(),
		EveStrategy:           strategies[rand.Intn(len(strategies))],
		AffectedQubits:        rand.Intn(5),
		ErrorRates:            errorRates,
		Plots:                 []string{},
		Timestamp:             time.Now().Format(time.RFC3339),
	}
}

// RunFullSimulation generates per-protocol keys and entropies, persists one
// Simulation row per protocol plus a QuantumKey for the BB84 key, and logs
// the run.
func (s *SimulationService) RunFullSimulation(userID uint, numQubits int) (*SimulationResult, error) {
	if numQubits <= 0 {
		numQubits = 100
	}

	keys := make(map[string]string, len(simulationProtocols))
	entropies := make(map[string]float64, len(simulationProtocols))

	for _, protocol := range simulationProtocols {
		keyLength := int(float64(numQubits) * (0.3 + rand.Float64()*0.2))
		key := randomKey(keyLength)
		entropy := 0.8 + rand.Float64()*0.2

		keys[protocol] = key
		entropies[protocol] = entropy

		row := &models.Simulation{
			UserID:        userID,
			Protocol:      protocol,
			NumQubits:     numQubits,
			KeyGenerated:  key,
			Entropy:       entropy,
			ExecutionTime: 0.5 + rand.Float64()*2,
			Parameters: datatypes.JSONMap{
				"algorithm": protocol,
				"numQubits": numQubits,
			},
		}
		if protocol == "BB84" {
			qber := 0.01 + rand.Float64()*0.05
			row.QBER = &qber
		}
		if err := models.DB.Create(row).Error; err != nil {
			return nil, err
		}
	}

	quantumKey := &models.QuantumKey{
		UserID:    userID,
		KeyData:   keys["BB84"],
		Protocol:  "BB84",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := models.DB.Create(quantumKey).Error; err != nil {
		return nil, err
	}

	s.audit.Append(&userID, models.EventSimulation,
		fmt.Sprintf("QKD simulation completed with %d qubits", numQubits),
		models.SeverityInfo, "", nil)

	return &SimulationResult{
		Keys:          keys,
		Entropy:       entropies,
		QBER:          0.01 + rand.Float64()*0.05,
		ExecutionTime: 0.5 + rand.Float64()*2,
		Timestamp:     time.Now().Format(time.RFC3339),
	}, nil
}

// FallbackSimulation returns the canned payload served when the simulation
// path fails.
func (s *SimulationService) FallbackSimulation() *SimulationResult {
	return &SimulationResult{
		Keys: map[string]string{
			"BB84":      "010110101001",
			"E91":       "10010110",
			"E92":       "11001010",
			"Six-State": "01101001",
		},
		Entropy: map[string]float64{
			"BB84":      0.9182,
			"E91":       0.8791,
			"E92":       0.9231,
			"Six-State": 0.8934,
		},
		QBER:          0.0521,
		ExecutionTime: 1.2345,
		Timestamp:     time.Now().Format(time.RFC3339),
	}
}
