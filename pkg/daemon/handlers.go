package daemon

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/events"
	"github.com/robokit/handeye/pkg/version"
)

func getParameters(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, currentParams())
}

func getFrames(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, framesBuf.Edges())
}

// frameUpdate is one transform pushed by a frame bridge.
type frameUpdate struct {
	Parent    string                `json:"parent"`
	Child     string                `json:"child"`
	Transform calibration.Transform `json:"transform"`
}

func setFrames(c *gin.Context) {
	var updates []frameUpdate
	if err := c.BindJSON(&updates); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	for _, u := range updates {
		if u.Parent == "" || u.Child == "" {
			err := fmt.Errorf("frame update must name both parent and child, got %q -> %q", u.Parent, u.Child)
			c.IndentedJSON(http.StatusBadRequest, err.Error())
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}
		framesBuf.Set(u.Parent, u.Child, u.Transform)
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("updated %d frames", len(updates)))
}

func getSamples(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, currentSampler().Samples())
}

func takeSample(c *gin.Context) {
	s := currentSampler()
	sample, err := s.Take()
	if err != nil {
		logrus.Errorf("takeSample failed: %v", err)
		c.IndentedJSON(http.StatusConflict, err.Error())
		_ = c.AbortWithError(http.StatusConflict, err)
		return
	}

	count := s.Count()
	logrus.Infof("took sample %d", count)
	sseHub.Publish(events.SampleTaken, events.SampleEvent{
		Index: count - 1,
		Count: count,
		Ts:    time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusCreated, sample)
}

func removeSample(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	s := currentSampler()
	if err := s.Remove(index); err != nil {
		c.IndentedJSON(http.StatusNotFound, err.Error())
		_ = c.AbortWithError(http.StatusNotFound, err)
		return
	}

	count := s.Count()
	logrus.Infof("removed sample %d, %d left", index, count)
	sseHub.Publish(events.SampleRemoved, events.SampleEvent{
		Index: index,
		Count: count,
		Ts:    time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusOK, count)
}

func getAlgorithms(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, registry.Algorithms())
}

func getAlgorithm(c *gin.Context) {
	stateMu.Lock()
	defer stateMu.Unlock()
	c.IndentedJSON(http.StatusOK, algorithm)
}

func setAlgorithm(c *gin.Context) {
	var qualified string
	if err := c.BindJSON(&qualified); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if _, _, err := registry.Resolve(qualified); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	stateMu.Lock()
	algorithm = qualified
	stateMu.Unlock()

	logrus.Infof("set algorithm to %s", qualified)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func computeCalibration(c *gin.Context) {
	stateMu.Lock()
	qualified := algorithm
	stateMu.Unlock()

	result, err := registry.Compute(currentParams(), currentSampler().Samples(), qualified)
	if err != nil {
		logrus.Errorf("computeCalibration failed: %v", err)
		c.IndentedJSON(http.StatusConflict, err.Error())
		_ = c.AbortWithError(http.StatusConflict, err)
		return
	}

	stateMu.Lock()
	lastResult = result
	stateMu.Unlock()

	logrus.Infof("computed calibration %s -> %s with %s", result.FrameID, result.ChildFrameID, qualified)
	sseHub.Publish(events.CalibrationComputed, events.CalibrationComputedEvent{
		Algorithm: qualified,
		Transform: result.Transform,
		Ts:        time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusOK, result)
}

func getCalibration(c *gin.Context) {
	stateMu.Lock()
	result := lastResult
	stateMu.Unlock()

	if result == nil {
		err := fmt.Errorf("no calibration computed yet")
		c.IndentedJSON(http.StatusNotFound, err.Error())
		_ = c.AbortWithError(http.StatusNotFound, err)
		return
	}

	c.IndentedJSON(http.StatusOK, result)
}

func saveCalibration(c *gin.Context) {
	stateMu.Lock()
	result := lastResult
	stateMu.Unlock()

	if result == nil {
		err := fmt.Errorf("no calibration computed yet")
		c.IndentedJSON(http.StatusConflict, err.Error())
		_ = c.AbortWithError(http.StatusConflict, err)
		return
	}

	if err := result.SaveToFile(); err != nil {
		logrus.Errorf("saveCalibration failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	path, _ := result.Filename()
	logrus.Infof("saved calibration to %s", path)
	sseHub.Publish(events.CalibrationSaved, events.CalibrationSavedEvent{
		Name: result.Parameters.Name,
		Path: path,
		Ts:   time.Now().Unix(),
	})

	c.IndentedJSON(http.StatusCreated, path)
}

// scheduleStatus is the wire form of the scheduler state.
type scheduleStatus struct {
	Active  bool      `json:"active"`
	NextRun time.Time `json:"next_run,omitempty"`
}

func getSampleSchedule(c *gin.Context) {
	nextRun, _ := sched.Status()
	c.IndentedJSON(http.StatusOK, scheduleStatus{
		Active:  !nextRun.IsZero(),
		NextRun: nextRun,
	})
}

func setSampleSchedule(c *gin.Context) {
	var cronExpr string
	if err := c.BindJSON(&cronExpr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := sched.Schedule(cronExpr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	nextRun, _ := sched.Status()
	logrus.Infof("sampling scheduled with %q, next run at %s", cronExpr, nextRun.Format(time.DateTime))

	c.IndentedJSON(http.StatusCreated, nextRun)
}

func removeSampleSchedule(c *gin.Context) {
	sched.Unschedule()
	logrus.Info("sampling schedule removed")
	c.IndentedJSON(http.StatusOK, "ok")
}

func postponeSampleSchedule(c *gin.Context) {
	var durationStr string
	if err := c.BindJSON(&durationStr); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := sched.Postpone(d); err != nil {
		c.IndentedJSON(http.StatusConflict, err.Error())
		_ = c.AbortWithError(http.StatusConflict, err)
		return
	}

	logrus.Infof("postponed next scheduled sample by %s", d)
	c.IndentedJSON(http.StatusOK, "ok")
}

func skipSampleSchedule(c *gin.Context) {
	if err := sched.Skip(); err != nil {
		c.IndentedJSON(http.StatusConflict, err.Error())
		_ = c.AbortWithError(http.StatusConflict, err)
		return
	}

	nextRun, _ := sched.Status()
	logrus.Infof("skipped next scheduled sample, next run at %s", nextRun.Format(time.DateTime))
	c.IndentedJSON(http.StatusOK, nextRun)
}

func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
