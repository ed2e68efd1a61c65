package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"
)

// Document is the configuration document. Every field is optional; a field
// left nil was absent in the source.
type Document struct {
	AppDesign         json.RawMessage
	AppLayout         json.RawMessage
	Screens           json.RawMessage
	OnboardingScreens json.RawMessage
	MobileApp         json.RawMessage
}

// Exists reports whether path names something on disk. It does not check
// permissions or content.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Read returns the content of the configuration file at path as UTF-8 text.
// Each byte that is not part of a valid UTF-8 sequence becomes U+FFFD.
func Read(path string) ([]byte, error) {
	if !Exists(path) {
		return nil, ErrMissingFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return toValidUTF8(data), nil
}

func toValidUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	out := make([]byte, 0, len(data)+8)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		out = utf8.AppendRune(out, r)
		data = data[size:]
	}
	return out
}

// Parse decodes a configuration document. Field names match exactly and
// unknown fields are ignored. A top-level value that is not an object yields
// an empty document, except null, which is rejected.
func Parse(data []byte) (*Document, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: document is null", ErrMalformedInput)
	}

	var doc Document
	if trimmed[0] != '{' {
		return &doc, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	doc.AppDesign = fields["appDesign"]
	doc.AppLayout = fields["appLayout"]
	doc.Screens = fields["screens"]
	doc.OnboardingScreens = fields["onboardingScreens"]
	doc.MobileApp = fields["mobileApp"]
	return &doc, nil
}
