package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"cry-classification/utils"
)

// AnnouncementDir is where Announce keeps synthesized MP3s.
const AnnouncementDir = "tmp/announcements"

type GoogleTTSClient struct {
	apiKey string
}

type TTSRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
		SsmlGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding   string  `json:"audioEncoding"`
		SpeakingRate    float64 `json:"speakingRate,omitempty"`
		Pitch           float64 `json:"pitch,omitempty"`
		VolumeGainDb    float64 `json:"volumeGainDb,omitempty"`
		SampleRateHertz int     `json:"sampleRateHertz,omitempty"`
	} `json:"audioConfig"`
}

type TTSResponse struct {
	AudioContent string `json:"audioContent"`
}

// NewGoogleTTSClient requires GOOGLE_TTS_API_KEY in the environment.
// Callers load any .env file before constructing the client.
func NewGoogleTTSClient() (*GoogleTTSClient, error) {
	apiKey := os.Getenv("GOOGLE_TTS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_TTS_API_KEY environment variable is required")
	}

	return &GoogleTTSClient{
		apiKey: apiKey,
	}, nil
}

func (g *GoogleTTSClient) SynthesizeText(text string) ([]byte, error) {
	ctx := context.Background()

	// Prepare the TTS request
	ttsReq := TTSRequest{}
	ttsReq.Input.Text = text
	ttsReq.Voice.LanguageCode = "en-US"
	ttsReq.Voice.Name = "en-GB-Standard-F" // Female voice
	ttsReq.Voice.SsmlGender = "FEMALE"
	ttsReq.AudioConfig.AudioEncoding = "MP3"
	ttsReq.AudioConfig.SpeakingRate = 1.0
	ttsReq.AudioConfig.Pitch = 0.0
	ttsReq.AudioConfig.VolumeGainDb = 0.0
	ttsReq.AudioConfig.SampleRateHertz = 24000

	// Convert to JSON
	jsonData, err := json.Marshal(ttsReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TTS request: %v", err)
	}

	// Create HTTP request
	url := fmt.Sprintf("https://texttospeech.googleapis.com/v1/text:synthesize?key=%s", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Send request
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send TTS request: %v", err)
	}
	defer resp.Body.Close()

	// Read response
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error: %s - %s", resp.Status, string(body))
	}

	// Parse response
	var ttsResp TTSResponse
	if err := json.Unmarshal(body, &ttsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal TTS response: %v", err)
	}

	// Decode base64 audio content
	audioData, err := base64.StdEncoding.DecodeString(ttsResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %v", err)
	}

	return audioData, nil
}

// SaveAnnouncement synthesizes the line and writes the MP3 under dir,
// returning the saved file path.
func (g *GoogleTTSClient) SaveAnnouncement(line, dir string) (string, error) {
	audioData, err := g.SynthesizeText(line)
	if err != nil {
		return "", err
	}

	if err := utils.CreateFolder(dir); err != nil {
		return "", fmt.Errorf("failed to create announcement directory: %v", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("announcement_%d.mp3", utils.GenerateUniqueID()))
	if err := os.WriteFile(path, audioData, 0644); err != nil {
		return "", fmt.Errorf("failed to write announcement file: %v", err)
	}

	return path, nil
}

// Announce speaks a prediction line out loud. The synthesized MP3 is kept
// under AnnouncementDir; playback goes through ffplay and is skipped
// quietly when ffplay is not installed.
func (g *GoogleTTSClient) Announce(line string) error {
	path, err := g.SaveAnnouncement(line, AnnouncementDir)
	if err != nil {
		return err
	}

	if _, err := exec.LookPath("ffplay"); err != nil {
		return nil
	}

	cmd := exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to play announcement: %v", err)
	}

	return nil
}
