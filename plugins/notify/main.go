// Package main provides a notification plugin for macOS.
// It posts a Notification Center banner when a round starts or ends.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Event mirrors the game event fields this plugin reads.
type Event struct {
	Kind  string `json:"kind"`
	Round string `json:"round"`
	Score int    `json:"score"`
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
	Sound string `json:"sound"` // e.g. "Glass"; empty for silent banners
}

// messages maps event kinds to banner text. %d is the score.
var messages = map[string]string{
	"start": "Round started. Pinch the target!",
	"over":  "Game over. Final score: %d",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	format, ok := messages[req.Event.Kind]
	if !ok {
		// Nothing to show for this kind
		writeSuccessResponse()
		return
	}

	var settings Settings
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &settings); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	message := format
	if req.Event.Kind == "over" {
		message = fmt.Sprintf(format, req.Event.Score)
	}

	if err := runAppleScript(buildScript(message, settings.Sound)); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// buildScript creates the display notification command. Strings are quoted
// with strconv.Quote, which yields valid AppleScript literals for plain text.
func buildScript(message, sound string) string {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(message), strconv.Quote("Pinch Master"))
	if sound != "" {
		script += " sound name " + strconv.Quote(sound)
	}
	return script
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
