package wav

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"cry-classification/utils"
)

// CheckFFmpegAvailable reports whether the ffmpeg binary can be found on PATH.
func CheckFFmpegAvailable() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %v", err)
	}
	return nil
}

// ConvertToWAVFile converts any audio file ffmpeg can read into a 16-bit PCM
// WAV at the given output path. The source file is left untouched.
func ConvertToWAVFile(inputFilePath, outputFilePath string, channels int) error {
	if _, err := os.Stat(inputFilePath); err != nil {
		return fmt.Errorf("input file does not exist: %v", err)
	}
	if channels < 1 || channels > 2 {
		channels = 1
	}

	if err := utils.CreateFolder(filepath.Dir(outputFilePath)); err != nil {
		return err
	}

	// ffmpeg cannot edit files in place, and the output may already exist.
	// Write to a temporary sibling and move it over.
	tmpFile := filepath.Join(filepath.Dir(outputFilePath), "tmp_"+filepath.Base(outputFilePath))
	defer os.Remove(tmpFile)

	cmd := exec.Command(
		"ffmpeg",
		"-y",
		"-i", inputFilePath,
		"-c", "pcm_s16le",
		"-ac", fmt.Sprint(channels),
		tmpFile,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to convert to WAV: %v, output %v", err, string(output))
	}

	if err := utils.MoveFile(tmpFile, outputFilePath); err != nil {
		return fmt.Errorf("failed to rename temporary file to output file: %v", err)
	}

	return nil
}

// GetAudioDuration returns the duration in seconds of any audio file
// by calling ffprobe.
func GetAudioDuration(inputPath string) (float64, error) {
	cmd := exec.Command(
		"ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration query failed: %v", err)
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
