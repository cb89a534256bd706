// Package verify decides whether an uploaded image plausibly shows a press
// or work credential: decode, OCR, normalize, then keyword and ID-pattern
// matching with a deterministic confidence score.
package verify

import (
	"bytes"
	"context"
	"errors"
	"image"
	"regexp"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrDecode means the upload is not a raster image we can read.
	ErrDecode = errors.New("image could not be decoded")
	// ErrExtraction means the OCR engine failed or produced nothing.
	ErrExtraction = errors.New("text extraction failed")
)

// idPattern matches "id" optionally followed by a separator and an
// identifier of at least four word characters, e.g. "ID-4821" or "id card1".
var idPattern = regexp.MustCompile(`id[-\s]?\w{4,}`)

// Result is the verdict for one verification attempt. It is never persisted;
// the handler turns it into a success or rejection message.
type Result struct {
	Verified      bool    `json:"verified"`
	Confidence    float64 `json:"confidence"`
	ExtractedText string  `json:"extracted_text"`
}

// TextExtractor produces raw text from image bytes. The production
// implementation shells out to tesseract; tests substitute stubs.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageData []byte) (string, error)
}

// Config carries the pipeline's knobs, passed in at construction time.
type Config struct {
	Keywords          []string
	AllowedExtensions []string
}

// Verifier runs the pipeline. Construct with New.
type Verifier struct {
	extractor TextExtractor
	keywords  []string
	allowExts []string
}

func New(cfg Config, extractor TextExtractor) *Verifier {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = []string{"press", "journalist", "photographer"}
	}
	return &Verifier{
		extractor: extractor,
		keywords:  keywords,
		allowExts: cfg.AllowedExtensions,
	}
}

// AllowedExtension checks an upload filename against the configured
// whitelist. An empty whitelist allows everything.
func (v *Verifier) AllowedExtension(filename string) bool {
	if len(v.allowExts) == 0 {
		return true
	}
	name := strings.ToLower(filename)
	for _, ext := range v.allowExts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Verify runs the full pipeline. It fails closed: on any decode or
// extraction failure the returned Result rejects with confidence 0.0 and the
// error is returned only so the caller can log it. A malformed upload is a
// rejection, never a server fault.
func (v *Verifier) Verify(ctx context.Context, imageData []byte) (Result, error) {
	rejected := Result{Verified: false, Confidence: 0.0, ExtractedText: ""}

	if _, _, err := image.Decode(bytes.NewReader(imageData)); err != nil {
		return rejected, ErrDecode
	}

	text, err := v.extractor.ExtractText(ctx, imageData)
	if err != nil {
		return rejected, ErrExtraction
	}

	clean := Normalize(text)
	if clean == "" {
		// No extractable text at all: treated like an extraction miss, not
		// a half-match.
		return rejected, nil
	}

	verified, confidence := v.Score(clean)
	return Result{Verified: verified, Confidence: confidence, ExtractedText: text}, nil
}

// Normalize lowercases and collapses consecutive whitespace to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Score applies keyword and ID-pattern matching to normalized text. Both
// together verify at 0.9; anything less scores 0.5. Deterministic for
// identical input.
func (v *Verifier) Score(clean string) (bool, float64) {
	keywordFound := false
	for _, keyword := range v.keywords {
		if strings.Contains(clean, keyword) {
			keywordFound = true
			break
		}
	}
	idFound := idPattern.MatchString(clean)

	if keywordFound && idFound {
		return true, 0.9
	}
	return false, 0.5
}
