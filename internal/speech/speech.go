// Package speech voices detected gestures through the ElevenLabs API,
// falling back to local espeak when the service is unreachable.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"

	// DefaultVoiceID is Rachel, a natural female voice.
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

	modelID = "eleven_monolingual_v1"
)

// VoiceSettings tunes the synthesized voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func defaultVoiceSettings() VoiceSettings {
	return VoiceSettings{Stability: 0.5, SimilarityBoost: 0.5, Style: 0, UseSpeakerBoost: true}
}

// Config selects the voice and credentials. When AgentID is set the
// conversational agent endpoint is used instead of plain text-to-speech.
type Config struct {
	APIKey  string
	VoiceID string
	AgentID string
	BaseURL string
}

// Client synthesizes and plays speech. Use New.
type Client struct {
	cfg      Config
	settings VoiceSettings
	c        *http.Client
	playFn   func(ctx context.Context, audio []byte) error
}

// New creates a speech client. The API key may be empty; Speak then goes
// straight to the local fallback.
func New(cfg Config) *Client {
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	s := &Client{
		cfg:      cfg,
		settings: defaultVoiceSettings(),
		c:        &http.Client{Timeout: 30 * time.Second},
	}
	s.playFn = s.playAudio
	return s
}

type ttsRequest struct {
	Text          string        `json:"text"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
	ModelID       string        `json:"model_id,omitempty"`
}

// Synthesize returns MP3 audio for the given text.
func (s *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speech: nothing to say")
	}
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("speech: no API key configured")
	}

	url := s.cfg.BaseURL + "/v1/text-to-speech/" + s.cfg.VoiceID
	body := ttsRequest{Text: text, VoiceSettings: s.settings, ModelID: modelID}
	if s.cfg.AgentID != "" {
		url = s.cfg.BaseURL + "/v1/convai/agents/" + s.cfg.AgentID + "/speak"
		body.ModelID = ""
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("speech marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		const maxErr = 4096
		lb := io.LimitReader(resp.Body, maxErr)
		b, _ := io.ReadAll(lb)
		return nil, fmt.Errorf("speech %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	return io.ReadAll(resp.Body)
}

// Speak synthesizes the text and plays it. When synthesis fails it falls
// back to local espeak so the user still hears something.
func (s *Client) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("speech: nothing to say")
	}

	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		log.Printf("speech: synthesis failed, trying espeak: %v", err)
		if fbErr := espeak(ctx, text); fbErr != nil {
			return err
		}
		return nil
	}
	return s.playFn(ctx, audio)
}

// ListVoices returns the available ElevenLabs voices keyed by voice ID.
func (s *Client) ListVoices(ctx context.Context) (map[string]string, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("speech: no API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech voices: %s", resp.Status)
	}

	var out struct {
		Voices []struct {
			VoiceID string `json:"voice_id"`
			Name    string `json:"name"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("speech voices decode: %w", err)
	}

	voices := make(map[string]string, len(out.Voices))
	for _, v := range out.Voices {
		voices[v.VoiceID] = v.Name
	}
	return voices, nil
}

// playAudio writes the MP3 to a temp file and hands it to the first audio
// player found on the system.
func (s *Client) playAudio(ctx context.Context, audio []byte) error {
	player, args := findPlayer()
	if player == "" {
		return fmt.Errorf("speech: no audio player found")
	}

	f, err := os.CreateTemp("", "mudra-*.mp3")
	if err != nil {
		return fmt.Errorf("speech temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("speech temp file: %w", err)
	}
	f.Close()

	cmd := exec.CommandContext(ctx, player, append(args, f.Name())...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speech playback with %s: %w", player, err)
	}
	return nil
}

// findPlayer locates an MP3-capable command line player.
// It checks: mpg123, ffplay, mplayer, and afplay.
func findPlayer() (string, []string) {
	candidates := []struct {
		name string
		args []string
	}{
		{"mpg123", []string{"-q"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{"mplayer", []string{"-really-quiet"}},
		{"afplay", nil},
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return path, c.args
		}
	}
	return "", nil
}

func espeak(ctx context.Context, text string) error {
	path, err := exec.LookPath("espeak")
	if err != nil {
		return fmt.Errorf("speech: espeak not available: %w", err)
	}
	return exec.CommandContext(ctx, path, text).Run()
}
