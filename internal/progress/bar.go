// Package progress provides a really simple progress bar for long running
// loops over the database handle.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar counts finished items out of a known total.
type Bar struct {
	pb *progressbar.ProgressBar
}

// NewBar returns a bar writing to writer. A nil writer disables the output
// while still counting.
func NewBar(writer io.Writer, description string, maxItems int) *Bar {
	if writer == nil {
		writer = io.Discard
	}

	pb := progressbar.NewOptions64(
		int64(maxItems),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = pb.Set(0)

	return &Bar{pb: pb}
}

// Inc marks one more item as done.
func (b *Bar) Inc() {
	_ = b.pb.Add(1)
}

// Count returns the number of items marked as done.
func (b *Bar) Count() int {
	return int(b.pb.State().CurrentNum)
}

// Finish completes the bar and releases the terminal line.
func (b *Bar) Finish() {
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
