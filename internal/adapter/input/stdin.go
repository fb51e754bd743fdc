package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// StdinAdapter reads toast requests from standard input.
type StdinAdapter struct {
	reader io.Reader
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin}
}

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Import reads requests from standard input.
// Supports three formats:
//  1. JSON array of {"kind", "message"} objects
//  2. one JSON object per line
//  3. plain lines, "kind: message" or just the message (info)
//
// Blank lines are skipped and unknown kinds become info.
func (a *StdinAdapter) Import(ctx context.Context) ([]Request, error) {
	scanner := bufio.NewScanner(a.reader)
	const maxSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxSize)

	var lines [][]byte
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) > 0 {
			lines = append(lines, bytes.Clone(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to read stdin",
			Err:     err,
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	if lines[0][0] == '[' {
		return parseJSONArray(bytes.Join(lines, []byte("\n")))
	}

	requests := make([]Request, 0, len(lines))
	for i, line := range lines {
		r, err := parseLine(line)
		if err != nil {
			return nil, &AdapterError{
				Source:  "stdin",
				Message: fmt.Sprintf("line %d", i+1),
				Err:     err,
			}
		}
		requests = append(requests, r)
	}
	return requests, nil
}

// parseJSONArray parses a JSON array of requests.
func parseJSONArray(data []byte) ([]Request, error) {
	var entries []stdinEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &AdapterError{
			Source:  "stdin",
			Message: "failed to parse JSON input",
			Err:     err,
		}
	}

	requests := make([]Request, 0, len(entries))
	for _, entry := range entries {
		requests = append(requests, entry.request())
	}
	return requests, nil
}

func parseLine(line []byte) (Request, error) {
	if line[0] == '{' {
		var entry stdinEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return Request{}, err
		}
		return entry.request(), nil
	}

	text := string(line)
	if kind, msg, ok := strings.Cut(text, ":"); ok && model.Kind(strings.ToLower(strings.TrimSpace(kind))).Valid() {
		return Request{Kind: model.ParseKind(strings.TrimSpace(kind)), Message: sanitizeString(strings.TrimSpace(msg))}, nil
	}
	return Request{Kind: model.KindInfo, Message: sanitizeString(text)}, nil
}

// stdinEntry represents a request in the JSON formats.
type stdinEntry struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e stdinEntry) request() Request {
	return Request{Kind: model.ParseKind(e.Kind), Message: sanitizeString(e.Message)}
}

// sanitizeString strips control characters other than newline and tab.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
