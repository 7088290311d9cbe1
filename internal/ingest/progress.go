package ingest

import "io"

// ProgressIndeterminate is reported once when the total size is unknown.
const ProgressIndeterminate = -1

// ProgressFunc receives percentage updates during a transfer: 0–100, or
// ProgressIndeterminate when the total is unknown. Updates are monotonically
// non-decreasing.
type ProgressFunc func(percent int)

// ProgressReader wraps an io.Reader and reports percentage progress as the
// transport drains it. Reports fire at transfer start, whenever the percent
// advances, and at completion.
type ProgressReader struct {
	r       io.Reader
	total   int64
	read    int64
	last    int // last percent reported; -2 before the first report
	fn      ProgressFunc
	unknown bool
}

// NewProgressReader wraps r. Pass total ≤ 0 when the size is unknown; the
// reader then reports a single indeterminate update at start.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, last: -2, fn: fn, unknown: total <= 0}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	if pr.last == -2 && pr.fn != nil {
		if pr.unknown {
			pr.fn(ProgressIndeterminate)
			pr.last = ProgressIndeterminate
		} else {
			pr.fn(0)
			pr.last = 0
		}
	}

	n, err := pr.r.Read(p)
	pr.read += int64(n)

	if pr.fn != nil && !pr.unknown && n > 0 {
		percent := int(pr.read * 100 / pr.total)
		if percent > 100 {
			percent = 100
		}
		if percent > pr.last {
			pr.fn(percent)
			pr.last = percent
		}
	}
	return n, err
}

// Complete reports the terminal 100% update. The submitter calls it after
// the network call fully succeeds, so a short read can never leave the bar
// stuck below completion.
func (pr *ProgressReader) Complete() {
	if pr.fn != nil && pr.last != 100 {
		pr.fn(100)
		pr.last = 100
	}
}
