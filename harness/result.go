// Package harness runs one benchmark process execution and reduces its
// outcome to timings or a typed failure.
package harness

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/weiihann/jvmsweep/suite"
)

// ProcessRecord is the per-process result consumed by Krun's external
// suite interface. The counter fields are reserved and always empty.
type ProcessRecord struct {
	WallclockTimes  []float64 `json:"wallclock_times"`
	CoreCycleCounts [][]int64 `json:"core_cycle_counts"`
	AperfCounts     [][]int64 `json:"aperf_counts"`
	MperfCounts     [][]int64 `json:"mperf_counts"`
}

// NewProcessRecord wraps timings in a ProcessRecord.
func NewProcessRecord(t suite.Timings) ProcessRecord {
	times := make([]float64, len(t))
	copy(times, t)

	return ProcessRecord{
		WallclockTimes:  times,
		CoreCycleCounts: [][]int64{},
		AperfCounts:     [][]int64{},
		MperfCounts:     [][]int64{},
	}
}

// WriteJSON writes r as a single line of JSON.
func (r ProcessRecord) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

// DecodeProcessRecord reads a ProcessRecord written by WriteJSON.
func DecodeProcessRecord(r io.Reader) (*ProcessRecord, error) {
	var rec ProcessRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return &rec, nil
}
