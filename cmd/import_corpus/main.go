package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cry-classification/wav"
)

// Phone recordings arrive as caf, 3gp, m4a and friends. This tool
// converts a category-per-folder tree of them into the 16-bit PCM WAV
// corpus layout the trainer reads.

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".caf":  true,
	".3gp":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
}

func main() {
	srcDir := flag.String("src", "", "Source directory with one folder per cry reason")
	dstDir := flag.String("dst", "corpus", "Destination corpus directory")
	channels := flag.Int("channels", 1, "Output channel count (1 or 2)")
	flag.Parse()

	if *srcDir == "" {
		log.Fatal("Usage: go run . -src <directory> [-dst corpus] [-channels 1]\n\n" +
			"Example structure:\n" +
			"  recordings/\n" +
			"    hungry/\n" +
			"      0d5aecfa-hungry.caf\n" +
			"      3f1c9b22-hungry.3gp\n" +
			"    tired/\n" +
			"      9a4e07d1-tired.m4a\n")
	}

	if err := wav.CheckFFmpegAvailable(); err != nil {
		log.Fatalf("ERROR: %v (ffmpeg is required for corpus import)", err)
	}

	subdirs, err := discoverSubdirectories(*srcDir)
	if err != nil {
		log.Fatalf("failed to read directory: %v", err)
	}
	if len(subdirs) == 0 {
		log.Fatalf("no category directories found in %s", *srcDir)
	}

	log.Printf("Found %d category directories in %s:\n", len(subdirs), *srcDir)
	for _, dir := range subdirs {
		log.Printf("  - %s", filepath.Base(dir))
	}
	log.Println()

	converted := 0
	skipped := 0
	failed := 0
	stats := make(map[string]int)

	for _, subdir := range subdirs {
		category := filepath.Base(subdir)

		files, err := collectAudioFiles(subdir)
		if err != nil {
			log.Printf("  ERROR reading directory: %v\n", err)
			continue
		}
		if len(files) == 0 {
			log.Printf("WARNING: no audio files in %s, skipping\n", category)
			continue
		}

		log.Printf("Processing category: %s (%d files)\n", category, len(files))
		for i, filePath := range files {
			base := filepath.Base(filePath)
			outName := strings.TrimSuffix(base, filepath.Ext(base)) + ".wav"
			outPath := filepath.Join(*dstDir, category, outName)

			if _, err := os.Stat(outPath); err == nil {
				log.Printf("  [%d/%d] %s already imported, skipping", i+1, len(files), base)
				skipped++
				continue
			}

			log.Printf("  [%d/%d] %s", i+1, len(files), base)
			if err := wav.ConvertToWAVFile(filePath, outPath, *channels); err != nil {
				log.Printf("  ✗ ERROR: %v\n", err)
				failed++
				continue
			}

			converted++
			stats[category]++
		}
		log.Println()
	}

	if converted == 0 && skipped == 0 {
		log.Fatalf("no recordings were converted")
	}

	log.Printf("✓ Imported %d recordings into %s (%d skipped, %d failed)\n\n",
		converted, *dstDir, skipped, failed)

	log.Println("Category distribution (this run):")
	categories := make([]string, 0, len(stats))
	for category := range stats {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		log.Printf("  %-20s: %d recordings\n", category, stats[category])
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("Next steps:")
	log.Println("1. Inspect the corpus:")
	log.Println("   go run ./cmd/inspect_corpus -corpus", *dstDir)
	log.Println("2. Train and classify:")
	log.Println("   go run . run -corpus", *dstDir)
	log.Println(strings.Repeat("=", 60))
}

func discoverSubdirectories(rootDir string) ([]string, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, err
	}

	var subdirs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		subdirs = append(subdirs, filepath.Join(rootDir, entry.Name()))
	}
	sort.Strings(subdirs)

	return subdirs, nil
}

func collectAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}
