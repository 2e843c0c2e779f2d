// Package main provides a transcript hook. It appends every confident
// detection to a plain-text transcript file so a conversation can be read
// back later.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Result is the detection payload the executor writes to stdin. Only the
// fields the transcript needs are declared.
type Result struct {
	Gesture     *string `json:"gesture"`
	Confidence  float64 `json:"confidence"`
	Translation string  `json:"translation"`
}

// Response is the reply written to stdout.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func main() {
	// Read the detection from stdin
	var result Result
	if err := json.NewDecoder(os.Stdin).Decode(&result); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode result: %v", err))
		return
	}

	if result.Gesture == nil {
		writeErrorResponse("no gesture in result")
		return
	}

	path := os.Getenv("MUDRA_TRANSCRIPT")
	if path == "" {
		path = "transcript.txt"
	}

	if err := appendLine(path, *result.Gesture, result.Translation); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to append transcript: %v", err))
		return
	}

	writeSuccessResponse(fmt.Sprintf("appended to %s", path))
}

// appendLine writes one "gesture -> translation" line with a timestamp.
func appendLine(path, gesture, translation string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("%s  %s -> %s\n", time.Now().Format("2006-01-02 15:04:05"), gesture, translation)
	_, err = f.WriteString(line)
	return err
}

// writeErrorResponse writes a failure response to stdout.
func writeErrorResponse(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{OK: false, Message: msg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{OK: true, Message: msg})
}
