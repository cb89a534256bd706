package verify

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

// tinyPNG returns a valid 1x1 image so the decode gate passes and the stub
// extractor controls the outcome.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestVerifyScoring(t *testing.T) {
	tests := []struct {
		name           string
		extracted      string
		wantVerified   bool
		wantConfidence float64
	}{
		{"keyword and id", "PRESS pass\nID-4821", true, 0.9},
		{"keyword and spaced id", "Journalist   id 99231", true, 0.9},
		{"keyword only", "Official Press Credential", false, 0.5},
		{"id only", "badge id-77421", false, 0.5},
		{"neither", "employee of the month", false, 0.5},
		{"id too short", "press id-123", false, 0.5},
		{"no extractable text", "   \n\t ", false, 0.0},
	}

	v := New(Config{}, nil)
	img := tinyPNG(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v.extractor = stubExtractor{text: tt.extracted}
			got, err := v.Verify(context.Background(), img)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got.Verified != tt.wantVerified || got.Confidence != tt.wantConfidence {
				t.Errorf("Verify() = (%v, %v), want (%v, %v)",
					got.Verified, got.Confidence, tt.wantVerified, tt.wantConfidence)
			}
		})
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	v := New(Config{}, stubExtractor{err: errors.New("engine exploded")})
	got, err := v.Verify(context.Background(), tinyPNG(t))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Verify() error = %v, want ErrExtraction", err)
	}
	if got.Verified || got.Confidence != 0.0 || got.ExtractedText != "" {
		t.Errorf("Verify() on extractor failure = %+v, want rejected zero result", got)
	}

	got, err = v.Verify(context.Background(), []byte("not an image at all"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Verify() error = %v, want ErrDecode", err)
	}
	if got.Verified || got.Confidence != 0.0 {
		t.Errorf("Verify() on decode failure = %+v, want rejected zero result", got)
	}
}

func TestVerifyDeterministic(t *testing.T) {
	v := New(Config{}, stubExtractor{text: "Press ID-4821"})
	img := tinyPNG(t)
	first, _ := v.Verify(context.Background(), img)
	for i := 0; i < 5; i++ {
		again, _ := v.Verify(context.Background(), img)
		if again != first {
			t.Fatalf("Verify() run %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestAllowedExtension(t *testing.T) {
	v := New(Config{AllowedExtensions: []string{".png", ".jpg", ".jpeg"}}, nil)
	if !v.AllowedExtension("badge.PNG") {
		t.Error("AllowedExtension(badge.PNG) = false, want true")
	}
	if v.AllowedExtension("badge.pdf") {
		t.Error("AllowedExtension(badge.pdf) = true, want false")
	}
}
