package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/frames"
	"github.com/robokit/handeye/pkg/sampler"
)

// FrameUpdate is one transform pushed to the daemon frame buffer.
type FrameUpdate struct {
	Parent    string                `json:"parent"`
	Child     string                `json:"child"`
	Transform calibration.Transform `json:"transform"`
}

// ScheduleStatus mirrors the daemon sample-schedule state.
type ScheduleStatus struct {
	Active  bool      `json:"active"`
	NextRun time.Time `json:"next_run,omitempty"`
}

func (c *Client) GetParameters() (*calibration.Parameters, error) {
	ret, err := c.Get("/parameters")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calibration parameters")
	}

	var params calibration.Parameters
	if err := json.Unmarshal([]byte(ret), &params); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration parameters")
	}
	return &params, nil
}

func (c *Client) GetFrames() ([]frames.Stamped, error) {
	ret, err := c.Get("/frames")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get frames")
	}

	var edges []frames.Stamped
	if err := json.Unmarshal([]byte(ret), &edges); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal frames")
	}
	return edges, nil
}

func (c *Client) SetFrames(updates []FrameUpdate) (string, error) {
	payload, err := json.Marshal(updates)
	if err != nil {
		return "", err
	}
	return c.Put("/frames", string(payload))
}

func (c *Client) GetSamples() ([]sampler.Sample, error) {
	ret, err := c.Get("/samples")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get samples")
	}

	var samples []sampler.Sample
	if err := json.Unmarshal([]byte(ret), &samples); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal samples")
	}
	return samples, nil
}

func (c *Client) TakeSample() (*sampler.Sample, error) {
	ret, err := c.Post("/samples", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to take sample")
	}

	var sample sampler.Sample
	if err := json.Unmarshal([]byte(ret), &sample); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sample: %w", err)
	}
	return &sample, nil
}

// RemoveSample deletes the sample at index and returns how many samples are
// left.
func (c *Client) RemoveSample(index int) (int, error) {
	ret, err := c.Delete("/samples/" + strconv.Itoa(index))
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to remove sample %d", index)
	}

	count, err := strconv.Atoi(ret)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to parse remaining sample count")
	}
	return count, nil
}

func (c *Client) GetAlgorithms() ([]string, error) {
	ret, err := c.Get("/algorithms")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list algorithms")
	}

	var algorithms []string
	if err := json.Unmarshal([]byte(ret), &algorithms); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal algorithms")
	}
	return algorithms, nil
}

func (c *Client) GetAlgorithm() (string, error) {
	ret, err := c.Get("/algorithm")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get algorithm")
	}

	var algorithm string
	if err := json.Unmarshal([]byte(ret), &algorithm); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal algorithm")
	}
	return algorithm, nil
}

func (c *Client) SetAlgorithm(qualified string) (string, error) {
	payload, err := json.Marshal(qualified)
	if err != nil {
		return "", err
	}
	return c.Put("/algorithm", string(payload))
}

func (c *Client) Compute() (*calibration.Calibration, error) {
	ret, err := c.Post("/compute", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to compute calibration")
	}

	var cal calibration.Calibration
	if err := json.Unmarshal([]byte(ret), &cal); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration")
	}
	return &cal, nil
}

func (c *Client) GetCalibration() (*calibration.Calibration, error) {
	ret, err := c.Get("/calibration")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calibration")
	}

	var cal calibration.Calibration
	if err := json.Unmarshal([]byte(ret), &cal); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calibration")
	}
	return &cal, nil
}

// Save persists the last computed calibration on the daemon side and returns
// the file path.
func (c *Client) Save() (string, error) {
	ret, err := c.Post("/save", "")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to save calibration")
	}

	var path string
	if err := json.Unmarshal([]byte(ret), &path); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal saved path")
	}
	return path, nil
}

func (c *Client) GetSampleSchedule() (*ScheduleStatus, error) {
	ret, err := c.Get("/sample-schedule")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get sample schedule")
	}

	var status ScheduleStatus
	if err := json.Unmarshal([]byte(ret), &status); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal sample schedule")
	}
	return &status, nil
}

func (c *Client) SetSampleSchedule(cronExpr string) (string, error) {
	payload, err := json.Marshal(cronExpr)
	if err != nil {
		return "", err
	}
	return c.Put("/sample-schedule", string(payload))
}

func (c *Client) RemoveSampleSchedule() (string, error) {
	return c.Delete("/sample-schedule")
}

func (c *Client) PostponeSampleSchedule(d time.Duration) (string, error) {
	payload, err := json.Marshal(d.String())
	if err != nil {
		return "", err
	}
	return c.Post("/sample-schedule/postpone", string(payload))
}

func (c *Client) SkipSampleSchedule() (string, error) {
	return c.Post("/sample-schedule/skip", "")
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to decode version")
	}
	return v, nil
}
