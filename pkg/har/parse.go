package har

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Common errors for capture loading.
var (
	ErrInvalidCapture   = errors.New("invalid HAR format")
	ErrFileNotFound     = errors.New("capture file not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError reports a document that is not a usable capture.
// It always unwraps to ErrInvalidCapture.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	msg := ErrInvalidCapture.Error() + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrInvalidCapture and the decode cause.
func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidCapture, e.Cause}
	}
	return []error{ErrInvalidCapture}
}

// probe checks for log.entries without decoding the entries themselves.
type probe struct {
	Log *struct {
		Entries json.RawMessage `json:"entries"`
	} `json:"log"`
}

// Parse decodes a HAR document. It returns a *ValidationError when data is
// not JSON or has no log.entries array. An empty entries array is valid.
func Parse(data []byte) (*Document, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &ValidationError{Message: "failed to parse capture", Cause: err}
	}
	if p.Log == nil {
		return nil, &ValidationError{Message: "missing log"}
	}
	entries := bytes.TrimSpace(p.Log.Entries)
	if len(entries) == 0 || entries[0] != '[' {
		return nil, &ValidationError{Message: "missing log.entries"}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Message: "malformed entries", Cause: err}
	}
	if doc.Log.Entries == nil {
		doc.Log.Entries = []Entry{}
	}
	return &doc, nil
}

// Read decodes a HAR document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}
	return Parse(data)
}

// Load reads and decodes the HAR file at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// NewDocument wraps entries in a document carrying the fixed creator and
// HAR version. A nil slice is written as an empty array.
func NewDocument(entries []Entry) *Document {
	if entries == nil {
		entries = []Entry{}
	}
	return &Document{
		Log: Log{
			Version: Version,
			Creator: Creator,
			Entries: entries,
		},
	}
}

// Encode writes doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode capture: %w", err)
	}
	return buf.Bytes(), nil
}
