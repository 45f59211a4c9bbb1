// Package main provides a scoreboard plugin.
// It appends each finished round to a JSON Lines file and reports the best score.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event mirrors the game event fields this plugin reads.
type Event struct {
	Kind  string    `json:"kind"`
	Round string    `json:"round"`
	Score int       `json:"score"`
	At    time.Time `json:"at"`
}

// Request represents the input from the plugin executor.
type Request struct {
	Event  Event           `json:"event"`
	Config json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Settings come from the manifest's config block.
type Settings struct {
	File string `json:"file"`
}

// Entry is one line of the scoreboard file.
type Entry struct {
	Round string    `json:"round"`
	Score int       `json:"score"`
	At    time.Time `json:"at"`
}

const defaultFile = "scores.jsonl"

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Event.Kind != "over" {
		writeSuccessResponse(nil)
		return
	}

	settings := Settings{File: defaultFile}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &settings); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}
	path := expandHome(settings.File)

	entry := Entry{Round: req.Event.Round, Score: req.Event.Score, At: req.Event.At}
	if err := appendEntry(path, entry); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to record score: %v", err))
		return
	}

	best, games, err := summarize(path)
	if err != nil {
		writeErrorResponse(fmt.Sprintf("failed to read scoreboard: %v", err))
		return
	}

	data, _ := json.Marshal(map[string]int{"best": best, "games": games})
	writeSuccessResponse(data)
}

func expandHome(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func appendEntry(path string, entry Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(entry)
}

// summarize returns the best score and the number of recorded games.
// Malformed lines are skipped.
func summarize(path string) (best, games int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if json.Unmarshal(scanner.Bytes(), &e) != nil {
			continue
		}
		games++
		if e.Score > best {
			best = e.Score
		}
	}
	return best, games, scanner.Err()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}
