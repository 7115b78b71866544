package cry

import (
	"fmt"
	"math"

	"cry-classification/wav"
)

// Clip is a decoded recording ready for feature extraction. Samples are
// mono float64 in [-1, 1] at the file's native sample rate.
type Clip struct {
	Path       string
	Samples    []float64
	SampleRate int
	Duration   float64
}

// LoadClip decodes a WAV file into a mono clip. Multi-channel files are
// averaged down to one channel; the sample rate is never resampled.
func LoadClip(path string) (*Clip, error) {
	info, err := wav.ReadWavInfo(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	samples, err := info.Samples()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples in %s", path)
	}

	return &Clip{
		Path:       path,
		Samples:    samples,
		SampleRate: info.SampleRate,
		Duration:   info.Duration,
	}, nil
}

// EstimateSNR estimates the signal-to-noise ratio in dB. The noise floor
// is taken from the first 10% of the clip (at least 512 samples), which
// usually precedes the cry onset. Diagnostic only; extraction always runs
// on the raw samples.
func EstimateSNR(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	noiseLen := len(samples) / 10
	if noiseLen < 512 {
		noiseLen = 512
	}
	if noiseLen > len(samples) {
		noiseLen = len(samples)
	}

	noiseFloor := estimateNoiseFloor(samples[:noiseLen])
	noisePower := noiseFloor * noiseFloor

	var signalPower float64
	for _, s := range samples {
		signalPower += s * s
	}
	signalPower /= float64(len(samples))

	if noisePower == 0 {
		return 100.0
	}

	ratio := signalPower / noisePower
	if ratio <= 0 {
		return -100.0
	}

	return 10 * math.Log10(ratio)
}

// estimateNoiseFloor computes the RMS of a presumed-quiet segment.
func estimateNoiseFloor(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s * s
	}

	return math.Sqrt(sum / float64(len(samples)))
}
