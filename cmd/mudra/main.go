package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/speech"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/translate"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	headless := flag.Bool("headless", false, "run without the system tray")
	noCamera := flag.Bool("no-camera", false, "skip the local camera pipeline and serve uploaded frames only")
	addr := flag.String("addr", "", "listen address override, e.g. :5001")
	flag.Parse()

	log.SetPrefix("[mudra] ")

	fmt.Println("Mudra - Sign Language Translator")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the data directory and store
	if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Classifier chain resolves its backend lazily on the first frame
	classifier := classify.NewChain(classify.Config{
		GeometricPath: cfg.Models.GeometricPath,
		SequencePath:  cfg.Models.SequencePath,
		LabelsPath:    cfg.Models.LabelsPath,
		Threshold:     cfg.Detection.Threshold,
		Smoothing:     cfg.Detection.Smoothing,
	})
	defer classifier.Close()

	// Optional collaborators join the session only when actually configured,
	// so its nil checks keep working
	sessCfg := session.Config{
		Classifier: classifier,
		Recorder:   st.Detections(),
	}
	if cfg.Translator.URL != "" {
		sessCfg.Translator = translate.New(cfg.Translator.URL, cfg.Translator.Timeout())
	}
	var speaker *speech.Client
	if cfg.Speech.APIKey != "" {
		speaker = speech.New(speech.Config{
			APIKey:  cfg.Speech.APIKey,
			VoiceID: cfg.Speech.VoiceID,
			AgentID: cfg.Speech.AgentID,
		})
		sessCfg.Speaker = speaker
	}

	sess := session.New(sessCfg)
	hub := server.NewHub()

	// One detector serves both the frame API and the camera pipeline.
	// MediaPipe needs its Python helper; without it the mock keeps the
	// endpoints alive.
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		det = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}
	defer det.Close()

	srvCfg := server.Config{
		StaticDir: staticDir(cfg),
		Store:     st,
		Session:   sess,
		Detector:  det,
		Events:    hub,
	}
	if speaker != nil {
		srvCfg.Speech = speaker
	}

	// Local camera pipeline, unless explicitly disabled. A missing camera
	// degrades to uploads-only service.
	var a *app.App
	if !*noCamera {
		a = app.New(app.Config{
			Camera: capture.Config{
				DeviceID: cfg.Camera.DeviceID,
				Width:    cfg.Camera.Width,
				Height:   cfg.Camera.Height,
				FPS:      cfg.Camera.FPS,
			},
			MotionThreshold: cfg.Detection.MotionThreshold,
			IdleFPS:         cfg.Detection.IdleFPS,
			ActiveFPS:       cfg.Detection.ActiveFPS,
			IdleTimeout:     cfg.Detection.IdleTimeout(),
			HookDir:         cfg.Hooks.Dir,
			Session:         sess,
			Detector:        det,
			Events:          hub,
		})

		if err := a.DiscoverHooks(); err != nil {
			log.Printf("Hook discovery failed: %v", err)
		} else if n := len(a.Hooks().List()); n > 0 {
			log.Printf("Loaded %d detection hooks from %s", n, a.Hooks().HookDir())
		}

		if err := a.Start(); err != nil {
			log.Printf("Camera unavailable (%v), serving uploaded frames only", err)
			a = nil
		} else {
			srvCfg.Camera = a.Camera()
		}
	}

	srv := server.New(srvCfg)

	listenAddr := cfg.Addr()
	if *addr != "" {
		listenAddr = *addr
	}

	go func() {
		fmt.Printf("Starting server on %s\n", listenAddr)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *headless {
		waitForSignal()
		log.Println("Shutting down")
		if a != nil {
			a.Stop()
		}
		return
	}

	// The tray owns the session toggle; the pipeline reports detections back
	// so the menu stays truthful after each auto-stop
	t := tray.New()
	t.OnToggle(func(active bool) {
		if active {
			sess.Start()
		} else {
			sess.Stop()
		}
	})
	t.OnDashboard(func() {
		openBrowser(dashboardURL(listenAddr))
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})
	if a != nil {
		a.OnDetection(func(r session.Result) {
			t.SetDetection(false)
			if r.Gesture != nil {
				t.SetLastGesture(*r.Gesture, r.Translation)
			}
			t.SetGestureCount(r.GestureCount)
		})
	}

	// Interrupts end the tray loop so the deferred cleanup below runs
	go func() {
		waitForSignal()
		t.Quit()
	}()

	t.Run()

	if a != nil {
		a.Stop()
	}
}

// staticDir resolves the frontend directory: an explicit configuration wins,
// otherwise common relative locations are searched.
func staticDir(cfg *config.Config) string {
	dir := cfg.Server.StaticDir
	if dir == "" {
		dir = findWebDir()
	}
	if dir != "" {
		fmt.Printf("Serving static files from: %s\n", dir)
	}
	return dir
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeWebDir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
}

// dashboardURL turns a listen address into something a browser can open.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform launcher. Failure only logs;
// the dashboard stays reachable by hand.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
