package verify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// tesseractTimeout bounds a single OCR run; big scans can otherwise hang the
// request goroutine.
const tesseractTimeout = 20 * time.Second

// TesseractExtractor invokes the tesseract binary on disk. The image is
// written to a temp file because tesseract wants a file path, and output is
// requested on stdout.
type TesseractExtractor struct {
	// EnginePath is the tesseract binary, e.g. /usr/bin/tesseract.
	EnginePath string
}

func NewTesseractExtractor(enginePath string) *TesseractExtractor {
	if enginePath == "" {
		enginePath = "tesseract"
	}
	return &TesseractExtractor{EnginePath: enginePath}
}

func (t *TesseractExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	tmp, err := os.CreateTemp("", "credential-*.img")
	if err != nil {
		return "", fmt.Errorf("creating scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing scratch file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, tesseractTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.EnginePath, tmp.Name(), "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w: %s", t.EnginePath, err, stderr.String())
	}
	return stdout.String(), nil
}
