package perceptron

type Config struct {
	Features     int     `envconfig:"PERCEPT_MODEL_FEATURES" default:"2"`
	LearningRate float64 `envconfig:"PERCEPT_MODEL_LEARNING_RATE" default:"0.01"`
	Epochs       int     `envconfig:"PERCEPT_MODEL_EPOCHS" default:"100"`
	// Seed pins the weight initialization when non-zero.
	Seed int64 `envconfig:"PERCEPT_MODEL_SEED" default:"0"`
}
