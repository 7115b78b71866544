package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	// FormatPCM marks integer PCM encoded audio data.
	FormatPCM = 1
	// FormatIEEEFloat marks 32-bit float encoded audio data.
	FormatIEEEFloat = 3
)

// WavInfo carries the decoded header fields and the raw data chunk of a WAV file.
type WavInfo struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	Format        int
	Data          []byte
	Duration      float64
}

// ReadWavInfo parses a RIFF/WAVE file from disk. It walks the chunk list so
// files with extra chunks (LIST, fact, cue) are handled, and accepts 8/16/24/32
// bit integer PCM as well as 32-bit IEEE float data.
func ReadWavInfo(filename string) (*WavInfo, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if len(data) < 12 {
		return nil, errors.New("invalid WAV file: too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("invalid WAV file: missing RIFF/WAVE header")
	}

	info := &WavInfo{}
	var haveFmt, haveData bool

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, fmt.Errorf("invalid WAV file: chunk %q exceeds file size", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("invalid WAV file: fmt chunk too short")
			}
			info.Format = int(binary.LittleEndian.Uint16(data[body : body+2]))
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			info.Data = data[body : body+chunkSize]
			haveData = true
		}

		// Chunks are word aligned; odd sizes carry a pad byte.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return nil, errors.New("invalid WAV file: no fmt chunk")
	}
	if !haveData {
		return nil, errors.New("invalid WAV file: no data chunk")
	}
	if info.Channels < 1 {
		return nil, fmt.Errorf("invalid WAV file: %d channels", info.Channels)
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid WAV file: sample rate %d", info.SampleRate)
	}

	switch info.Format {
	case FormatPCM:
		switch info.BitsPerSample {
		case 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("unsupported PCM bit depth: %d", info.BitsPerSample)
		}
	case FormatIEEEFloat:
		if info.BitsPerSample != 32 {
			return nil, fmt.Errorf("unsupported float bit depth: %d", info.BitsPerSample)
		}
	default:
		return nil, fmt.Errorf("unsupported WAV format code: %d", info.Format)
	}

	bytesPerFrame := info.Channels * info.BitsPerSample / 8
	if bytesPerFrame > 0 {
		frames := len(info.Data) / bytesPerFrame
		info.Duration = float64(frames) / float64(info.SampleRate)
	}

	return info, nil
}

// Samples decodes the data chunk into mono float64 samples in [-1, 1].
// Multi-channel audio is mixed down by averaging the channels.
func (info *WavInfo) Samples() ([]float64, error) {
	if len(info.Data) == 0 {
		return nil, errors.New("no audio data")
	}

	// Fast path for the most common layout.
	if info.Format == FormatPCM && info.BitsPerSample == 16 && info.Channels == 1 {
		return WavBytesToSamples(info.Data)
	}

	bytesPerSample := info.BitsPerSample / 8
	bytesPerFrame := bytesPerSample * info.Channels
	if len(info.Data)%bytesPerFrame != 0 {
		return nil, errors.New("audio data size is not aligned to the frame size")
	}

	frames := len(info.Data) / bytesPerFrame
	samples := make([]float64, frames)

	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < info.Channels; c++ {
			off := f*bytesPerFrame + c*bytesPerSample
			sum += decodeSample(info.Data[off:off+bytesPerSample], info.Format)
		}
		samples[f] = sum / float64(info.Channels)
	}

	return samples, nil
}

func decodeSample(raw []byte, format int) float64 {
	switch len(raw) {
	case 1:
		// 8-bit PCM is unsigned with a 128 offset.
		return (float64(raw[0]) - 128.0) / 128.0
	case 2:
		v := int16(binary.LittleEndian.Uint16(raw))
		return float64(v) / 32768.0
	case 3:
		v := int32(raw[0]) | int32(raw[1])<<8 | int32(raw[2])<<16
		// Sign extend from 24 bits.
		if v&0x800000 != 0 {
			v |= ^0xffffff
		}
		return float64(v) / 8388608.0
	case 4:
		bits := binary.LittleEndian.Uint32(raw)
		if format == FormatIEEEFloat {
			return float64(math.Float32frombits(bits))
		}
		return float64(int32(bits)) / 2147483648.0
	}
	return 0
}

// WavBytesToSamples converts 16-bit little-endian mono PCM bytes to float64
// samples in [-1, 1].
func WavBytesToSamples(input []byte) ([]float64, error) {
	if len(input)%2 != 0 {
		return nil, errors.New("invalid PCM data: odd byte count")
	}

	numSamples := len(input) / 2
	output := make([]float64, numSamples)

	for i := 0; i < numSamples; i++ {
		sample := int16(binary.LittleEndian.Uint16(input[i*2 : i*2+2]))
		output[i] = float64(sample) / 32768.0
	}

	return output, nil
}

// SamplesToWavBytes converts float64 samples in [-1, 1] to 16-bit
// little-endian PCM bytes, clipping out-of-range values.
func SamplesToWavBytes(samples []float64) []byte {
	output := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(math.Round(s * 32767.0))
		binary.LittleEndian.PutUint16(output[i*2:i*2+2], uint16(v))
	}
	return output
}

// WriteWavFile writes raw PCM data to disk with a standard 44-byte WAV header.
func WriteWavFile(filename string, data []byte, sampleRate, channels, bitsPerSample int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("invalid channel count: %d", channels)
	}
	if bitsPerSample != 8 && bitsPerSample != 16 && bitsPerSample != 24 && bitsPerSample != 32 {
		return fmt.Errorf("invalid bits per sample: %d", bitsPerSample)
	}

	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(FormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return os.WriteFile(filename, buf.Bytes(), 0644)
}
