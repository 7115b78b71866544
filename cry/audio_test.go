package cry

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadClipRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	writeToneWav(t, path, 440)

	clip, err := LoadClip(path)
	if err != nil {
		t.Fatalf("LoadClip returned error: %v", err)
	}

	if clip.Path != path {
		t.Fatalf("clip path %q, want %q", clip.Path, path)
	}
	if clip.SampleRate != 8000 {
		t.Fatalf("sample rate %d, want 8000", clip.SampleRate)
	}
	if len(clip.Samples) != 8000 {
		t.Fatalf("sample count %d, want 8000", len(clip.Samples))
	}
	if math.Abs(clip.Duration-1.0) > 0.01 {
		t.Fatalf("duration %v, want about 1s", clip.Duration)
	}

	// 16-bit quantization should stay well under 1e-3 absolute error.
	original := sineClip(440, 8000, 8000)
	for i := range original {
		if math.Abs(clip.Samples[i]-original[i]) > 1e-3 {
			t.Fatalf("sample %d drifted: got %v, want %v", i, clip.Samples[i], original[i])
		}
	}
}

func TestLoadClipErrors(t *testing.T) {
	t.Parallel()

	if _, err := LoadClip(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}

	corrupt := filepath.Join(t.TempDir(), "corrupt.wav")
	if err := os.WriteFile(corrupt, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	if _, err := LoadClip(corrupt); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestEstimateSNR(t *testing.T) {
	t.Parallel()

	// Quiet lead-in followed by a loud tone reads as high SNR.
	signal := make([]float64, 10000)
	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			signal[i] = 0.001
		} else {
			signal[i] = -0.001
		}
	}
	copy(signal[1000:], sineClip(440, 8000, 9000))

	if snr := EstimateSNR(signal); snr < 20 {
		t.Fatalf("expected high SNR for quiet lead-in, got %.1f dB", snr)
	}

	// A tone with no quiet segment reads near 0 dB.
	if snr := EstimateSNR(sineClip(440, 8000, 10000)); math.Abs(snr) > 3 {
		t.Fatalf("expected near-zero SNR for steady tone, got %.1f dB", snr)
	}

	if snr := EstimateSNR(make([]float64, 4096)); snr != 100 {
		t.Fatalf("silence should cap at 100 dB, got %v", snr)
	}
	if snr := EstimateSNR(nil); snr != 0 {
		t.Fatalf("empty input should report 0, got %v", snr)
	}
}
