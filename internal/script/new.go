package script

import (
	"math/rand"

	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
)

type implGenerator struct {
	model     DialogueModel
	modelName string
	logger    logger.Logger
	rng       *rand.Rand

	maxAttempts      int
	baseTemperature  float32
	tempIncrement    float32
	minTurns         int
	minParticipation float64
}

// New creates a Generator. Each failed attempt raises the sampling
// temperature by a fixed increment before retrying.
func New(model DialogueModel, modelName string, maxAttempts int, log logger.Logger, seed int64) Generator {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &implGenerator{
		model:            model,
		modelName:        modelName,
		logger:           log,
		rng:              rand.New(rand.NewSource(seed)),
		maxAttempts:      maxAttempts,
		baseTemperature:  0.7,
		tempIncrement:    0.15,
		minTurns:         6,
		minParticipation: 0.2,
	}
}
