package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCloseDrainsQueuedEntries(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(WithOutputDir(dir))
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	ctx := context.Background()
	const entries = 50
	for i := 0; i < entries; i++ {
		l.Info(ctx).Logs(fmt.Sprintf("entry %d", i))
	}
	// Close must block until the worker has written everything queued.
	l.Close()

	files, err := filepath.Glob(filepath.Join(dir, "gamepulse-*.log"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no log file written: %v", err)
	}
	var content strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading log file: %v", err)
		}
		content.Write(data)
	}
	for i := 0; i < entries; i++ {
		if !strings.Contains(content.String(), fmt.Sprintf("entry %d", i)) {
			t.Fatalf("entry %d lost on Close", i)
		}
	}
}
