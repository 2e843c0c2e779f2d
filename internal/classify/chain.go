package classify

import "log"

// Config selects model artifacts and thresholds for the classifier chain.
type Config struct {
	GeometricPath string
	SequencePath  string
	LabelsPath    string
	Threshold     float64
	Smoothing     SmootherConfig
}

// Chain resolves a concrete backend lazily, on first use, and delegates to
// it from then on. Resolution walks geometric, then sequence, then the mock
// terminal fallback, so a missing model never takes the pipeline down. The
// resolved backend kind is kept as classifier state.
type Chain struct {
	cfg     Config
	backend Classifier
	loaded  bool
}

// NewChain creates an unresolved chain. No model I/O happens until the first
// Classify or Kind call.
func NewChain(cfg Config) *Chain {
	return &Chain{cfg: cfg}
}

// ensureLoaded resolves the backend exactly once; the loaded flag keeps
// later calls from re-attempting model I/O.
func (c *Chain) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true

	g, err := LoadGeometric(c.cfg.GeometricPath, c.cfg.Threshold)
	if err == nil {
		log.Printf("classify: using geometric model from %s", c.cfg.GeometricPath)
		c.backend = g
		return
	}
	log.Printf("classify: geometric model unavailable (%v), trying sequence model", err)

	s, err := LoadSequence(c.cfg.SequencePath, c.cfg.LabelsPath, c.cfg.Threshold, c.cfg.Smoothing)
	if err == nil {
		log.Printf("classify: using sequence model from %s", c.cfg.SequencePath)
		c.backend = s
		return
	}
	log.Printf("classify: sequence model unavailable (%v), falling back to mock", err)

	c.backend = NewMock()
}

// Classify resolves the backend on first use and delegates.
func (c *Chain) Classify(landmarks []float64) (*Prediction, error) {
	c.ensureLoaded()
	return c.backend.Classify(landmarks)
}

// Kind reports the resolved backend tag, resolving first if needed.
func (c *Chain) Kind() Kind {
	c.ensureLoaded()
	return c.backend.Kind()
}

// Reset clears the resolved backend's buffers. An unresolved chain has
// nothing to clear and stays unresolved.
func (c *Chain) Reset() {
	if c.loaded {
		c.backend.Reset()
	}
}

// Close releases the resolved backend, if any.
func (c *Chain) Close() error {
	if c.loaded {
		return c.backend.Close()
	}
	return nil
}
