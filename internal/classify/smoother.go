package classify

// Smoothing defaults, tuned for interactive frame rates where single-frame
// jitter is common but a held gesture dominates a short window.
const (
	DefaultWindow        = 7
	DefaultHistory       = 10
	DefaultAgreement     = 0.6
	DefaultMinConfidence = 0.25
	DefaultImmediate     = 0.35
)

// SmootherConfig bounds and thresholds for the temporal vote. Zero values
// fall back to the defaults above.
type SmootherConfig struct {
	Window        int     `yaml:"window"`         // frames voting in one decision
	History       int     `yaml:"history"`        // retained per-frame predictions
	Agreement     float64 `yaml:"agreement"`      // modal-class share required to accept
	MinConfidence float64 `yaml:"min_confidence"` // mean modal confidence must exceed this
	Immediate     float64 `yaml:"immediate"`      // single-frame confidence that bypasses a failed vote
}

func (c SmootherConfig) withDefaults() SmootherConfig {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.History <= 0 {
		c.History = DefaultHistory
	}
	if c.History < c.Window {
		c.History = c.Window
	}
	if c.Agreement <= 0 {
		c.Agreement = DefaultAgreement
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.Immediate <= 0 {
		c.Immediate = DefaultImmediate
	}
	return c
}

// Smoother turns a jittery stream of per-frame class predictions into stable
// decisions by majority vote over the most recent window.
type Smoother struct {
	cfg     SmootherConfig
	classes *ring[int]
	confs   *ring[float64]
}

// NewSmoother creates a Smoother with fixed-capacity history buffers.
func NewSmoother(cfg SmootherConfig) *Smoother {
	cfg = cfg.withDefaults()
	return &Smoother{
		cfg:     cfg,
		classes: newRing[int](cfg.History),
		confs:   newRing[float64](cfg.History),
	}
}

// Observe records one raw per-frame prediction.
func (s *Smoother) Observe(class int, confidence float64) {
	s.classes.push(class)
	s.confs.push(confidence)
}

// Apply votes over the most recent window. It returns the modal class and
// the mean confidence of its occurrences when the window agrees strongly
// enough and that mean clears the confidence floor; otherwise ok is false.
func (s *Smoother) Apply() (class int, confidence float64, ok bool) {
	classes := s.classes.last(s.cfg.Window)
	confs := s.confs.last(s.cfg.Window)
	if len(classes) == 0 {
		return 0, 0, false
	}

	counts := make(map[int]int, len(classes))
	for _, c := range classes {
		counts[c]++
	}
	modal, best := 0, 0
	for c, n := range counts {
		// Ties resolve to the lowest class index so the vote is deterministic.
		if n > best || (n == best && c < modal) {
			modal, best = c, n
		}
	}

	if float64(best)/float64(len(classes)) < s.cfg.Agreement {
		return 0, 0, false
	}

	sum := 0.0
	for i, c := range classes {
		if c == modal {
			sum += confs[i]
		}
	}
	mean := sum / float64(best)
	if mean <= s.cfg.MinConfidence {
		return 0, 0, false
	}
	return modal, mean, true
}

// Immediate reports whether a single-frame confidence is strong enough to
// emit on its own when the vote rejects.
func (s *Smoother) Immediate(confidence float64) bool {
	return confidence > s.cfg.Immediate
}

// Reset clears both history buffers.
func (s *Smoother) Reset() {
	s.classes.reset()
	s.confs.reset()
}
