package writer

import (
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// BarWriter stores downloaded daily bars in a file the data source can read.
// Bars may arrive in any order; the writer sorts them by date on Finalize.
// Close releases the writer; called before Finalize it discards the bars.
type BarWriter interface {
	Initialize() error
	Write(symbol string, bar types.Bar) error
	// Finalize flushes the bars and returns the written file.
	Finalize() (outputPath string, err error)
	Close() error
	OutputPath() string
}
