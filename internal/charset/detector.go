// Package charset guesses and decodes the text encoding of raw intake files.
//
// Detection is statistical (chardet) over a bounded leading sample and always
// produces a name: anything uncertain resolves to the configured default.
package charset

import (
	"fmt"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"intake-go/internal/fs"
	"intake-go/internal/intake"
)

const (
	// DefaultEncoding is used whenever detection is not confident.
	DefaultEncoding = "utf-8"
	// DefaultSampleSize is the number of leading bytes inspected.
	DefaultSampleSize = 4096
)

// Detector implements intake.Detector on top of chardet.
type Detector struct {
	fallback      string
	sampleSize    int
	minConfidence int
	text          *chardet.Detector
	logger        intake.Logger
}

var _ intake.Detector = (*Detector)(nil)

// NewDetector creates a detector. An empty or unknown fallback becomes utf-8,
// a non-positive sampleSize becomes 4096. Results below minConfidence (0-100)
// are treated as undetected.
func NewDetector(fallback string, sampleSize, minConfidence int, logger intake.Logger) *Detector {
	name, ok := Canonical(fallback)
	if !ok {
		name = DefaultEncoding
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if logger == nil {
		logger = intake.NewNopLogger()
	}
	return &Detector{
		fallback:      name,
		sampleSize:    sampleSize,
		minConfidence: minConfidence,
		text:          chardet.NewTextDetector(),
		logger:        logger,
	}
}

// SampleSize returns the number of leading bytes Detect inspects.
func (d *Detector) SampleSize() int { return d.sampleSize }

// Default returns the fallback encoding name.
func (d *Detector) Default() string { return d.fallback }

// Detect returns the best-guess encoding for sample, or the fallback.
func (d *Detector) Detect(sample []byte) string {
	if len(sample) > d.sampleSize {
		sample = sample[:d.sampleSize]
	}
	if !hasTextStructure(sample) {
		d.logger.Debug("no text structure in sample, using default", "encoding", d.fallback)
		return d.fallback
	}

	res, err := d.text.DetectBest(sample)
	if err != nil || res == nil {
		d.logger.Debug("charset not detected, using default", "encoding", d.fallback)
		return d.fallback
	}
	if res.Confidence < d.minConfidence {
		d.logger.Debug("charset below confidence threshold",
			"charset", res.Charset, "confidence", res.Confidence, "min", d.minConfidence)
		return d.fallback
	}

	name, ok := Canonical(res.Charset)
	if !ok {
		d.logger.Debug("charset has no decoder, using default", "charset", res.Charset)
		return d.fallback
	}
	return name
}

// DetectFile detects the encoding of the file at path from its leading bytes only.
func (d *Detector) DetectFile(path string) (string, error) {
	sample, err := fs.ReadSample(path, d.sampleSize)
	if err != nil {
		return "", err
	}
	return d.Detect(sample), nil
}

// Decode converts data in the named encoding to UTF-8.
func (d *Detector) Decode(data []byte, name string) (string, error) {
	return Decode(data, name)
}

// Decode converts data in the named encoding to UTF-8. Invalid sequences become
// U+FFFD rather than failing.
func Decode(data []byte, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}

// Canonical resolves an encoding name or alias to its lower-cased MIME name.
// It reports false when no decoder exists for name.
func Canonical(name string) (string, bool) {
	enc, err := lookup(name)
	if err != nil {
		return "", false
	}
	if mime, err := ianaindex.MIME.Name(enc); err == nil && mime != "" {
		return strings.ToLower(mime), true
	}
	if iana, err := ianaindex.IANA.Name(enc); err == nil && iana != "" {
		return strings.ToLower(iana), true
	}
	return strings.ToLower(name), true
}

func lookup(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty encoding name")
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// hasTextStructure reports whether sample contains anything besides NUL and
// non-whitespace control bytes.
func hasTextStructure(sample []byte) bool {
	for _, b := range sample {
		switch {
		case b == '\t', b == '\n', b == '\r':
			return true
		case b < 0x20, b == 0x7f:
			continue
		default:
			return true
		}
	}
	return false
}
