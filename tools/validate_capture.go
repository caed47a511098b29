//go:build ignore

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/command"
	"github.com/muurk/iconn/internal/message"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/server"
)

// Statistics tracks decoding results
type Statistics struct {
	TotalFrames   int
	TotalFiles    int
	DecodeSuccess int
	DecodeFailure int
	Commands      map[string]int
	Messages      map[string]int
	FailedFrames  []FailedFrame
	FrameLengths  map[int]int
}

// FailedFrame stores information about decoding failures
type FailedFrame struct {
	File       string
	LineNumber int
	FrameNum   int
	PayloadHex string
	Error      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_capture <directory-or-file>")
		fmt.Println("Example: validate_capture ./captures/")
		fmt.Println("         validate_capture capture-20260301-104043.jsonl")
		os.Exit(1)
	}

	path := os.Args[1]

	stats := Statistics{
		Commands:     make(map[string]int),
		Messages:     make(map[string]int),
		FrameLengths: make(map[int]int),
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.jsonl"))
		if err != nil {
			fmt.Printf("Error finding JSONL files: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Printf("No JSONL files found in %s\n", path)
			os.Exit(1)
		}
	} else {
		files = []string{path}
	}

	fmt.Printf("=== iConnectivity Capture Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
	if stats.DecodeFailure > 0 {
		os.Exit(1)
	}
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	f, err := os.Open(filename)
	if err != nil {
		fmt.Printf("Error reading file %s: %v\n", filename, err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*protocol.MaxFrameSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var rec server.CapturedFrame
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			fmt.Printf("Error parsing JSON in %s line %d: %v\n", filename, lineNum, err)
			continue
		}
		stats.TotalFrames++

		fail := func(err error) {
			stats.DecodeFailure++
			stats.FailedFrames = append(stats.FailedFrames, FailedFrame{
				File:       filename,
				LineNumber: lineNum,
				FrameNum:   rec.FrameNum,
				PayloadHex: rec.PayloadHex,
				Error:      err.Error(),
			})
		}

		frame, err := codec.ParseHex(rec.PayloadHex)
		if err != nil {
			fail(err)
			continue
		}
		stats.FrameLengths[len(frame)]++

		switch {
		case protocol.MatchesHeader(protocol.SchemeCommand, frame):
			resp, err := command.ParseFrame(frame)
			if err != nil {
				fail(fmt.Errorf("command frame: %w", err))
				continue
			}
			stats.Commands[resp.Code.String()]++

		case protocol.MatchesHeader(protocol.SchemeMessage, frame):
			f, err := message.ParseFrame(frame)
			if err != nil {
				fail(fmt.Errorf("message frame: %w", err))
				continue
			}
			stats.Messages[f.Message.Class.String()]++

		default:
			fail(fmt.Errorf("not an iConnectivity SysEx frame"))
			continue
		}
		stats.DecodeSuccess++
	}
	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading %s: %v\n", filename, err)
	}
}

func printDistribution(title string, counts map[string]int, total int) {
	if len(counts) == 0 {
		return
	}
	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("%s\n", title)
	fmt.Printf("----------------------------------------\n")

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-28s %5d (%.2f%%)\n", name, counts[name], float64(counts[name])/float64(total)*100)
	}
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Total Frames:       %d\n", stats.TotalFrames)
	if stats.TotalFrames == 0 {
		return
	}
	fmt.Printf("Decode Success:     %d (%.2f%%)\n", stats.DecodeSuccess,
		float64(stats.DecodeSuccess)/float64(stats.TotalFrames)*100)
	fmt.Printf("Decode Failure:     %d (%.2f%%)\n", stats.DecodeFailure,
		float64(stats.DecodeFailure)/float64(stats.TotalFrames)*100)

	printDistribution("COMMAND DISTRIBUTION", stats.Commands, stats.TotalFrames)
	printDistribution("MESSAGE CLASS DISTRIBUTION", stats.Messages, stats.TotalFrames)

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("FRAME LENGTH DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	lengths := make([]int, 0, len(stats.FrameLengths))
	for l := range stats.FrameLengths {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	for _, l := range lengths {
		fmt.Printf("%d bytes: %d frames\n", l, stats.FrameLengths[l])
	}

	if len(stats.FailedFrames) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("DECODE FAILURES (%d total)\n", len(stats.FailedFrames))
		fmt.Printf("----------------------------------------\n")

		maxShow := 10
		if len(stats.FailedFrames) > maxShow {
			fmt.Printf("(Showing first %d of %d failures)\n\n", maxShow, len(stats.FailedFrames))
		}
		for i, failed := range stats.FailedFrames {
			if i >= maxShow {
				break
			}
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File: %s (line %d, frame #%d)\n", failed.File, failed.LineNumber, failed.FrameNum)
			fmt.Printf("  Error: %s\n", failed.Error)
			hexPreview := failed.PayloadHex
			if len(hexPreview) > 80 {
				hexPreview = hexPreview[:80] + "..."
			}
			fmt.Printf("  Frame: %s\n", hexPreview)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.DecodeFailure == 0 {
		fmt.Printf("✅ SUCCESS: All frames decoded\n")
	} else {
		fmt.Printf("⚠️  ISSUES FOUND: %d frames failed to decode\n", stats.DecodeFailure)
	}
	fmt.Printf("========================================\n")
}
