package events

import (
	"encoding/json"

	"github.com/robokit/handeye/pkg/calibration"
)

// Event name constants
const (
	SampleTaken         = "sample.taken"
	SampleRemoved       = "sample.removed"
	CalibrationComputed = "calibration.computed"
	CalibrationSaved    = "calibration.saved"
	ScheduleError       = "schedule.error"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// SampleEvent is the typed payload for sample.taken and sample.removed.
type SampleEvent struct {
	Index int   `json:"index"`
	Count int   `json:"count"`
	Ts    int64 `json:"ts"`
}

// CalibrationComputedEvent is the typed payload for calibration.computed.
type CalibrationComputedEvent struct {
	Algorithm string                `json:"algorithm"`
	Transform calibration.Transform `json:"transform"`
	Ts        int64                 `json:"ts"`
}

// CalibrationSavedEvent is the typed payload for calibration.saved.
type CalibrationSavedEvent struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Ts   int64  `json:"ts"`
}

// ScheduleErrorEvent is the typed payload for schedule.error.
type ScheduleErrorEvent struct {
	Message string `json:"message"`
	Ts      int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is
// empty, it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.SampleEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Index, payload.Count)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
