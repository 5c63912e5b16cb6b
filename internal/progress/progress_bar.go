// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

type Bar interface {
	Add(int) error
	Close() error
}

// BarBuilder returns a progress bar for a table. A total that isn't positive
// renders a spinner, used when the row count is not known upfront.
type BarBuilder func(total int64, description string) Bar

type ProgressBar struct {
	*progressbar.ProgressBar
}

// NewRowsBar renders the number of rows processed for a table on stderr.
func NewRowsBar(totalRows int64, description string) Bar {
	return newRowsBar(os.Stderr, totalRows, description)
}

func newRowsBar(out io.Writer, totalRows int64, description string) *ProgressBar {
	if totalRows <= 0 {
		// the bar only renders a spinner for -1, and errors on zero
		totalRows = -1
	}
	return &ProgressBar{
		ProgressBar: progressbar.NewOptions64(totalRows,
			progressbar.OptionSetWriter(out),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("rows"),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetPredictTime(totalRows > 0),
			progressbar.OptionSetWidth(20),
			progressbar.OptionEnableColorCodes(out == os.Stderr),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetDescription(description),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(out, "\n")
			}),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			})),
	}
}
