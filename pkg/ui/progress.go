package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// PageProgress renders feed pagination as a progress bar. It satisfies
// scraper.ProgressReporter.
type PageProgress struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
	max int
}

// NewPageProgress creates a reporter writing to out, stderr when nil
func NewPageProgress(out io.Writer) *PageProgress {
	if out == nil {
		out = os.Stderr
	}
	return &PageProgress{out: out}
}

// Start opens a bar for username. expected <= 0 renders a spinner.
func (p *PageProgress) Start(username string, expected int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	max := expected
	if max <= 0 {
		max = -1
	}
	p.max = max
	p.bar = progressbar.NewOptions(max,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(fmt.Sprintf("@%s posts", username)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSpinnerType(14),
	)
}

// Update moves the bar to fetched posts
func (p *PageProgress) Update(fetched int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	// media_count can lag behind the feed
	if p.max > 0 && fetched > p.max {
		p.max = fetched
		p.bar.ChangeMax(fetched)
	}
	_ = p.bar.Set(fetched)
}

// Finish completes the bar and ends its line
func (p *PageProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if p.max > 0 {
		_ = p.bar.Finish()
		fmt.Fprintln(p.out)
	} else {
		_ = p.bar.Clear()
	}
	p.bar = nil
}
