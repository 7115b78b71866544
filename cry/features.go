// Package cry turns labelled infant cry recordings into feature vectors
// and classifies the reason behind a cry.
//
// Every clip is reduced to a fixed 35-dimensional vector of per-frame
// means, laid out as:
//
//	 0..12   MFCC means (13 coefficients)
//	13..24   chroma means (12 pitch classes)
//	25       zero-crossing rate mean
//	26..31   spectral contrast means (6 octave bands)
//	32       spectral rolloff mean
//	33       spectral centroid mean
//	34       RMS energy mean
//
// Extraction runs on mono samples at the file's native sample rate.
// Clips shorter than one analysis frame are zero-padded to a single
// frame. The same file always yields the same vector.
package cry

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	// NumMFCC is the count of cepstral coefficients kept per frame.
	NumMFCC = 13
	// NumChroma is the count of pitch classes.
	NumChroma = 12
	// NumContrastBands is the count of octave bands for spectral contrast.
	NumContrastBands = 6
	// FeatureVectorLen is the full feature vector length.
	FeatureVectorLen = NumMFCC + NumChroma + 1 + NumContrastBands + 1 + 1 + 1
)

// Fixed positions of each feature group within the vector.
const (
	chromaOffset   = NumMFCC
	zcrIndex       = chromaOffset + NumChroma
	contrastOffset = zcrIndex + 1
	rolloffIndex   = contrastOffset + NumContrastBands
	centroidIndex  = rolloffIndex + 1
	rmsIndex       = centroidIndex + 1
)

// logFloor keeps log arguments strictly positive.
const logFloor = 1e-10

// melBankLowFreq is the lowest mel filterbank edge in Hz.
const melBankLowFreq = 20.0

// ExtractorConfig controls the short-time analysis.
type ExtractorConfig struct {
	FrameSize        int     // samples per analysis frame
	HopSize          int     // samples between frame starts
	MelFilters       int     // mel filterbank size for MFCCs
	PreEmphasis      float64 // pre-emphasis coefficient
	ContrastMinFreq  float64 // lowest octave band edge in Hz
	ContrastQuantile float64 // fraction of band bins forming peak and valley
	RolloffPercent   float64 // cumulative magnitude fraction for rolloff
}

// DefaultExtractorConfig returns the settings used across the pipeline.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		FrameSize:        2048,
		HopSize:          512,
		MelFilters:       40,
		PreEmphasis:      0.97,
		ContrastMinFreq:  50,
		ContrastQuantile: 0.02,
		RolloffPercent:   0.85,
	}
}

// Extractor computes feature vectors. The FFT plan and DCT matrix are
// prepared once; the mel filterbank is rebuilt whenever the sample rate
// changes. An Extractor is not safe for concurrent use, create one per
// goroutine.
type Extractor struct {
	cfg         ExtractorConfig
	window      []float64
	fft         *fourier.FFT
	dct         [][]float64
	melBank     [][]float64
	melBankRate int
}

// NewExtractor validates the configuration and prepares the analysis
// state.
func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	if cfg.FrameSize <= 0 {
		return nil, fmt.Errorf("invalid frame size: %d", cfg.FrameSize)
	}
	if cfg.HopSize <= 0 {
		return nil, fmt.Errorf("invalid hop size: %d", cfg.HopSize)
	}
	if cfg.MelFilters < NumMFCC {
		return nil, fmt.Errorf("mel filterbank too small: %d filters for %d coefficients", cfg.MelFilters, NumMFCC)
	}
	if cfg.PreEmphasis < 0 || cfg.PreEmphasis >= 1 {
		return nil, fmt.Errorf("invalid pre-emphasis coefficient: %v", cfg.PreEmphasis)
	}
	if cfg.ContrastMinFreq <= 0 {
		return nil, fmt.Errorf("invalid contrast band floor: %v Hz", cfg.ContrastMinFreq)
	}
	if cfg.ContrastQuantile <= 0 || cfg.ContrastQuantile > 0.5 {
		return nil, fmt.Errorf("invalid contrast quantile: %v", cfg.ContrastQuantile)
	}
	if cfg.RolloffPercent <= 0 || cfg.RolloffPercent > 1 {
		return nil, fmt.Errorf("invalid rolloff fraction: %v", cfg.RolloffPercent)
	}

	return &Extractor{
		cfg:    cfg,
		window: hannWindow(cfg.FrameSize),
		fft:    fourier.NewFFT(cfg.FrameSize),
		dct:    dctMatrix(NumMFCC, cfg.MelFilters),
	}, nil
}

// ExtractFile decodes a WAV file and extracts its feature vector.
func (e *Extractor) ExtractFile(path string) ([]float64, error) {
	clip, err := LoadClip(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(clip.Samples, clip.SampleRate)
}

// Extract computes the 35-dimensional feature vector for one clip.
func (e *Extractor) Extract(samples []float64, sampleRate int) ([]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	if sampleRate != e.melBankRate {
		e.melBank = melFilterBank(e.cfg.MelFilters, e.cfg.FrameSize, sampleRate)
		e.melBankRate = sampleRate
	}

	frameSize := e.cfg.FrameSize
	half := frameSize/2 + 1

	freqs := make([]float64, half)
	for i := range freqs {
		freqs[i] = float64(i) * float64(sampleRate) / float64(frameSize)
	}
	bands := contrastBands(e.cfg.ContrastMinFreq, freqs[half-1])

	numFrames := 1
	if len(samples) > frameSize {
		numFrames = 1 + (len(samples)-frameSize)/e.cfg.HopSize
	}

	frame := make([]float64, frameSize)
	buf := make([]float64, frameSize)
	mags := make([]float64, half)
	power := make([]float64, half)

	frameFeats := make([][]float64, 0, numFrames)
	for f := 0; f < numFrames; f++ {
		start := f * e.cfg.HopSize
		n := copy(frame, samples[start:])
		for i := n; i < frameSize; i++ {
			frame[i] = 0
		}

		feats := make([]float64, FeatureVectorLen)

		// Time-domain features come from the raw frame.
		feats[zcrIndex] = zeroCrossingRate(frame)
		feats[rmsIndex] = rootMeanSquare(frame)

		// Magnitude spectrum of the windowed frame.
		for i := range frame {
			buf[i] = frame[i] * e.window[i]
		}
		coeffs := e.fft.Coefficients(nil, buf)
		for i, c := range coeffs {
			mags[i] = cmplx.Abs(c)
		}

		feats[centroidIndex] = spectralCentroid(mags, freqs)
		feats[rolloffIndex] = spectralRolloff(mags, freqs, e.cfg.RolloffPercent)
		chromaFrame(mags, freqs, feats[chromaOffset:chromaOffset+NumChroma])
		contrastFrame(mags, freqs, bands, e.cfg.ContrastQuantile, feats[contrastOffset:contrastOffset+NumContrastBands])

		// Power spectrum of the pre-emphasised frame for MFCCs.
		buf[0] = frame[0] * e.window[0]
		for i := 1; i < frameSize; i++ {
			buf[i] = (frame[i] - e.cfg.PreEmphasis*frame[i-1]) * e.window[i]
		}
		coeffs = e.fft.Coefficients(nil, buf)
		for i, c := range coeffs {
			re, im := real(c), imag(c)
			power[i] = re*re + im*im
		}
		e.mfccFrame(power, feats[:NumMFCC])

		frameFeats = append(frameFeats, feats)
	}

	vector := make([]float64, FeatureVectorLen)
	column := make([]float64, len(frameFeats))
	for j := 0; j < FeatureVectorLen; j++ {
		for i, feats := range frameFeats {
			column[i] = feats[j]
		}
		vector[j] = stat.Mean(column, nil)
	}

	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite feature at index %d", i)
		}
	}

	return vector, nil
}

// mfccFrame maps one power spectrum to cepstral coefficients through the
// mel filterbank and the DCT matrix.
func (e *Extractor) mfccFrame(power []float64, out []float64) {
	mel := make([]float64, e.cfg.MelFilters)
	for m, filter := range e.melBank {
		var sum float64
		for k, w := range filter {
			if w != 0 {
				sum += w * power[k]
			}
		}
		if sum < logFloor {
			sum = logFloor
		}
		mel[m] = math.Log(sum)
	}

	for k := 0; k < NumMFCC; k++ {
		var acc float64
		for j, lm := range mel {
			acc += e.dct[k][j] * lm
		}
		out[k] = acc
	}
}

// chromaFrame folds spectral energy onto the 12 pitch classes, with C as
// class zero, and normalises the frame by its peak.
func chromaFrame(mags, freqs []float64, out []float64) {
	for i := range out {
		out[i] = 0
	}

	for i := 1; i < len(freqs); i++ {
		if mags[i] == 0 {
			continue
		}
		midi := 69 + 12*math.Log2(freqs[i]/440)
		pc := int(math.Round(midi)) % NumChroma
		if pc < 0 {
			pc += NumChroma
		}
		out[pc] += mags[i] * mags[i]
	}

	var peak float64
	for _, v := range out {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
}

// contrastBands returns the octave band edges starting at minFreq, with
// the top band capped at the Nyquist frequency.
func contrastBands(minFreq, nyquist float64) []float64 {
	edges := make([]float64, NumContrastBands+1)
	edges[0] = minFreq
	for i := 1; i <= NumContrastBands; i++ {
		edges[i] = edges[i-1] * 2
	}
	edges[NumContrastBands] = nyquist
	return edges
}

// contrastFrame fills out with the log peak-to-valley ratio of each
// octave band. Bands with no spectrum bins report zero.
func contrastFrame(mags, freqs []float64, edges []float64, quantile float64, out []float64) {
	for b := 0; b < NumContrastBands; b++ {
		lo, hi := edges[b], edges[b+1]
		last := b == NumContrastBands-1

		var band []float64
		for i := 1; i < len(freqs); i++ {
			f := freqs[i]
			if f < lo {
				continue
			}
			if f >= hi && !last {
				break
			}
			if f > hi {
				break
			}
			band = append(band, mags[i])
		}

		if len(band) == 0 {
			out[b] = 0
			continue
		}

		sort.Float64s(band)
		q := int(quantile * float64(len(band)))
		if q < 1 {
			q = 1
		}

		var valley, peak float64
		for i := 0; i < q; i++ {
			valley += band[i]
			peak += band[len(band)-1-i]
		}
		valley /= float64(q)
		peak /= float64(q)

		out[b] = math.Log(peak+logFloor) - math.Log(valley+logFloor)
	}
}

// spectralCentroid returns the magnitude-weighted mean frequency.
func spectralCentroid(mags, freqs []float64) float64 {
	var weighted, total float64
	for i, m := range mags {
		weighted += m * freqs[i]
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// spectralRolloff returns the frequency below which the given fraction of
// total spectral magnitude lies.
func spectralRolloff(mags, freqs []float64, fraction float64) float64 {
	var total float64
	for _, m := range mags {
		total += m
	}
	if total == 0 {
		return freqs[len(freqs)-1]
	}

	threshold := fraction * total
	var cum float64
	for i, m := range mags {
		cum += m
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// zeroCrossingRate counts sign changes per sample, ignoring exact zeros.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}

	crossings := 0
	prevSign := 0
	for _, s := range samples {
		sign := 0
		if s > 0 {
			sign = 1
		} else if s < 0 {
			sign = -1
		}
		if sign == 0 {
			continue
		}
		if prevSign != 0 && sign != prevSign {
			crossings++
		}
		prevSign = sign
	}

	return float64(crossings) / float64(len(samples)-1)
}

// rootMeanSquare returns the RMS energy of the samples.
func rootMeanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s * s
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// hannWindow builds a Hann window of the given size.
func hannWindow(size int) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// hzToMel converts a frequency in Hz to the mel scale.
func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// melToHz converts a mel value back to Hz.
func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterBank builds triangular filters over the power spectrum bins,
// spaced evenly on the mel scale between melBankLowFreq and the Nyquist
// frequency.
func melFilterBank(numFilters, fftSize, sampleRate int) [][]float64 {
	half := fftSize/2 + 1
	lowMel := hzToMel(melBankLowFreq)
	highMel := hzToMel(float64(sampleRate) / 2)

	bins := make([]int, numFilters+2)
	for i := range bins {
		mel := lowMel + float64(i)*(highMel-lowMel)/float64(numFilters+1)
		bins[i] = int(float64(fftSize+1) * melToHz(mel) / float64(sampleRate))
		if i > 0 && bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
		if bins[i] > half-1 {
			bins[i] = half - 1
		}
	}

	bank := make([][]float64, numFilters)
	for m := 1; m <= numFilters; m++ {
		filter := make([]float64, half)
		for k := bins[m-1]; k < bins[m]; k++ {
			filter[k] = float64(k-bins[m-1]) / float64(bins[m]-bins[m-1])
		}
		for k := bins[m]; k < bins[m+1]; k++ {
			filter[k] = float64(bins[m+1]-k) / float64(bins[m+1]-bins[m])
		}
		bank[m-1] = filter
	}

	return bank
}

// dctMatrix builds an orthonormal DCT-II matrix mapping melFilters log
// energies to numCoeffs cepstral coefficients.
func dctMatrix(numCoeffs, melFilters int) [][]float64 {
	m := make([][]float64, numCoeffs)
	scale := math.Sqrt(2 / float64(melFilters))
	for k := range m {
		row := make([]float64, melFilters)
		for j := range row {
			row[j] = scale * math.Cos(math.Pi*float64(k)*(2*float64(j)+1)/(2*float64(melFilters)))
		}
		if k == 0 {
			for j := range row {
				row[j] /= math.Sqrt2
			}
		}
		m[k] = row
	}
	return m
}
