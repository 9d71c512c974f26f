package importer

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Bar renders a single-line progress indicator for an import run. The total
// is learned from the first Update call, so the bar can be started before
// the walk has counted the tree.
type Bar struct {
	mu      sync.Mutex
	out     io.Writer
	message string
	done    int
	total   int
	quit    chan struct{}
	stopped sync.Once
}

// NewBar creates a Bar writing to out.
func NewBar(out io.Writer, message string) *Bar {
	return &Bar{
		out:     out,
		message: message,
		quit:    make(chan struct{}),
	}
}

// Start begins background rendering.
func (b *Bar) Start() {
	go b.render()
}

// Update records progress. Safe to call from the pipeline callback.
func (b *Bar) Update(done, total int) {
	b.mu.Lock()
	b.done = done
	b.total = total
	b.mu.Unlock()
}

// Stop ends rendering and prints the final state on its own line. When no
// update ever arrived (empty run or aborted before the first file) the
// spinner line is cleared instead.
func (b *Bar) Stop() {
	b.stopped.Do(func() {
		close(b.quit)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.total == 0 {
			fmt.Fprintf(b.out, "\r%s\r", strings.Repeat(" ", len(b.message)+24))
			return
		}
		fmt.Fprintf(b.out, "\r✓ %s (%d/%d)          \n", b.message, b.done, b.total)
	})
}

func (b *Bar) render() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-b.quit:
			return
		case <-ticker.C:
			b.mu.Lock()
			if b.total > 0 {
				percent := float64(b.done) / float64(b.total) * 100
				fmt.Fprintf(b.out, "\r%s %s [%d/%d] %.0f%%  ",
					spinnerFrames[frame%len(spinnerFrames)], b.message, b.done, b.total, percent)
			} else {
				fmt.Fprintf(b.out, "\r%s %s  ", spinnerFrames[frame%len(spinnerFrames)], b.message)
			}
			b.mu.Unlock()
			frame++
		}
	}
}
