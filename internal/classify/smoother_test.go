package classify

import (
	"math"
	"testing"
)

func observeAll(s *Smoother, classes []int, confs []float64) {
	for i := range classes {
		s.Observe(classes[i], confs[i])
	}
}

func TestSmootherApply(t *testing.T) {
	t.Run("dominant class in the window is accepted", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{})
		observeAll(s,
			[]int{1, 1, 2, 1, 1, 2, 1},
			[]float64{0.4, 0.5, 0.9, 0.3, 0.35, 0.9, 0.45})

		class, conf, ok := s.Apply()
		if !ok {
			t.Fatal("expected the vote to accept")
		}
		if class != 1 {
			t.Errorf("expected modal class 1, got %d", class)
		}
		// Mean over the five class-1 confidences only.
		want := (0.4 + 0.5 + 0.3 + 0.35 + 0.45) / 5
		if math.Abs(conf-want) > 1e-9 {
			t.Errorf("expected mean confidence %f, got %f", want, conf)
		}
	})

	t.Run("a split window is rejected", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{})
		observeAll(s,
			[]int{0, 0, 0, 1, 1, 1, 2},
			[]float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9})

		if _, _, ok := s.Apply(); ok {
			t.Error("expected a 3/3/1 split to reject")
		}
	})

	t.Run("agreement alone is not enough below the confidence floor", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{})
		observeAll(s,
			[]int{2, 2, 2, 2, 2, 2, 2},
			[]float64{0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25})

		// Mean exactly at the floor must reject; the floor is strict.
		if _, _, ok := s.Apply(); ok {
			t.Error("expected mean confidence at the floor to reject")
		}

		s.Reset()
		observeAll(s,
			[]int{2, 2, 2, 2, 2, 2, 2},
			[]float64{0.26, 0.26, 0.26, 0.26, 0.26, 0.26, 0.26})
		if _, _, ok := s.Apply(); !ok {
			t.Error("expected mean confidence above the floor to accept")
		}
	})

	t.Run("empty history is rejected", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{})
		if _, _, ok := s.Apply(); ok {
			t.Error("expected an empty history to reject")
		}
	})

	t.Run("only the most recent window votes", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{Window: 3, History: 5})

		// Old observations of class 9 must not outvote the recent class 4.
		observeAll(s,
			[]int{9, 9, 9, 4, 4, 4},
			[]float64{0.9, 0.9, 0.9, 0.8, 0.8, 0.8})

		class, _, ok := s.Apply()
		if !ok {
			t.Fatal("expected the vote to accept")
		}
		if class != 4 {
			t.Errorf("expected the recent class 4, got %d", class)
		}
	})

	t.Run("ties resolve to the lowest class index", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{Window: 4, Agreement: 0.5})
		observeAll(s,
			[]int{3, 1, 3, 1},
			[]float64{0.9, 0.9, 0.9, 0.9})

		class, _, ok := s.Apply()
		if !ok {
			t.Fatal("expected the vote to accept at 50% agreement")
		}
		if class != 1 {
			t.Errorf("expected tie to resolve to class 1, got %d", class)
		}
	})

	t.Run("history is bounded", func(t *testing.T) {
		s := NewSmoother(SmootherConfig{Window: 7, History: 10})
		for i := 0; i < 50; i++ {
			s.Observe(i%3, 0.9)
		}
		if got := s.classes.len(); got != 10 {
			t.Errorf("expected history capped at 10, got %d", got)
		}
	})
}

func TestSmootherImmediate(t *testing.T) {
	s := NewSmoother(SmootherConfig{})

	if s.Immediate(0.35) {
		t.Error("expected confidence at the immediate threshold to be rejected")
	}
	if !s.Immediate(0.36) {
		t.Error("expected confidence above the immediate threshold to pass")
	}
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother(SmootherConfig{})
	observeAll(s,
		[]int{5, 5, 5, 5, 5, 5, 5},
		[]float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9})

	if _, _, ok := s.Apply(); !ok {
		t.Fatal("expected the primed history to accept")
	}

	s.Reset()

	if _, _, ok := s.Apply(); ok {
		t.Error("expected a reset history to reject")
	}
	if s.classes.len() != 0 || s.confs.len() != 0 {
		t.Error("expected both buffers empty after reset")
	}
}

func TestSmootherConfigDefaults(t *testing.T) {
	cfg := SmootherConfig{}.withDefaults()

	if cfg.Window != DefaultWindow {
		t.Errorf("window: got %d, want %d", cfg.Window, DefaultWindow)
	}
	if cfg.History != DefaultHistory {
		t.Errorf("history: got %d, want %d", cfg.History, DefaultHistory)
	}
	if cfg.Agreement != DefaultAgreement {
		t.Errorf("agreement: got %f, want %f", cfg.Agreement, DefaultAgreement)
	}
	if cfg.MinConfidence != DefaultMinConfidence {
		t.Errorf("min confidence: got %f, want %f", cfg.MinConfidence, DefaultMinConfidence)
	}
	if cfg.Immediate != DefaultImmediate {
		t.Errorf("immediate: got %f, want %f", cfg.Immediate, DefaultImmediate)
	}

	// A window wider than the history would starve the vote; the history
	// grows to match.
	cfg = SmootherConfig{Window: 12, History: 4}.withDefaults()
	if cfg.History != 12 {
		t.Errorf("expected history raised to the window size, got %d", cfg.History)
	}
}
