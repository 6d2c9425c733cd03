// Package daemon runs the calibration daemon: it holds the live frame
// buffer, the sample set, and the solver, and exposes them over an HTTP API
// on a unix socket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/events"
	"github.com/robokit/handeye/pkg/frames"
	"github.com/robokit/handeye/pkg/params"
	"github.com/robokit/handeye/pkg/sampler"
	"github.com/robokit/handeye/pkg/solver"
)

// frameWindow is how old a frame may be before lookups treat it as stale.
const frameWindow = 10 * time.Second

var (
	framesBuf *frames.Buffer
	registry  *solver.Registry
	sseHub    *events.Hub
	sched     *Scheduler

	// stateMu guards everything a SIGHUP reload or a handler may change
	// while other handlers are reading it.
	stateMu    sync.Mutex
	calParams  calibration.Parameters
	smp        *sampler.Sampler
	algorithm  = solver.DefaultAlgorithm
	lastResult *calibration.Calibration
)

func currentParams() calibration.Parameters {
	stateMu.Lock()
	defer stateMu.Unlock()
	return calParams
}

func currentSampler() *sampler.Sampler {
	stateMu.Lock()
	defer stateMu.Unlock()
	return smp
}

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/parameters", getParameters)
	router.GET("/frames", getFrames)
	router.PUT("/frames", setFrames)
	router.GET("/samples", getSamples)
	router.POST("/samples", takeSample)
	router.DELETE("/samples/:index", removeSample)
	router.GET("/algorithms", getAlgorithms)
	router.GET("/algorithm", getAlgorithm)
	router.PUT("/algorithm", setAlgorithm)
	router.POST("/compute", computeCalibration)
	router.GET("/calibration", getCalibration)
	router.POST("/save", saveCalibration)
	router.GET("/sample-schedule", getSampleSchedule)
	router.PUT("/sample-schedule", setSampleSchedule)
	router.DELETE("/sample-schedule", removeSampleSchedule)
	router.POST("/sample-schedule/postpone", postponeSampleSchedule)
	router.POST("/sample-schedule/skip", skipSampleSchedule)
	router.GET("/events", getEvents)
	router.GET("/version", getVersion)

	return router
}

// loadParameters reads the calibration setup from the parameter file at
// configPath, or from HANDEYE_* environment variables when the path is
// empty.
func loadParameters(configPath string) (calibration.Parameters, error) {
	var provider params.Provider
	if configPath != "" {
		fp, err := params.NewFileProvider(configPath)
		if err != nil {
			return calibration.Parameters{}, err
		}
		provider = fp
	} else {
		provider = params.NewEnvProvider()
	}

	reader := params.NewReader(provider)
	reader.DeclareExpectedParameters()
	return reader.Read()
}

// reloadParameters swaps in a freshly read parameter set and a new, empty
// sampler. The frame buffer is kept: frames did not move just because the
// file was rewritten.
func reloadParameters(configPath string) error {
	p, err := loadParameters(configPath)
	if err != nil {
		return err
	}

	stateMu.Lock()
	calParams = p
	smp = sampler.New(p, framesBuf)
	stateMu.Unlock()
	return nil
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	framesBuf = frames.NewBuffer(frameWindow)
	if err := reloadParameters(configPath); err != nil {
		return fmt.Errorf("failed to read calibration parameters during startup: %w", err)
	}
	p := currentParams()
	logrus.WithFields(logrus.Fields{
		"name":        p.Name,
		"eye_in_hand": p.EyeInHand,
	}).Infof("calibration parameters loaded")

	registry = solver.NewRegistry(solver.Builtin{})
	sseHub = events.NewHub()
	sched = NewScheduler(scheduledSample, func() error { return currentSampler().Ready() }, nil, scheduleError)
	sched.Start()

	// Receive SIGHUP to reload parameters.
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			if err := reloadParameters(configPath); err != nil {
				logrus.Errorf("failed to reload parameters: %v", err)
				continue
			}
			logrus.Infof("parameters reloaded, sample set cleared")
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", unixSocketPath, err)
	}

	if allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		if err := os.Chmod(unixSocketPath, 0777); err != nil {
			return fmt.Errorf("failed to open up socket permissions: %w", err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping sample scheduler")
	sched.Stop()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}

// scheduledSample is the task the auto-sampling scheduler runs.
func scheduledSample() error {
	s := currentSampler()
	_, err := s.Take()
	if err != nil {
		return err
	}
	count := s.Count()
	sseHub.Publish(events.SampleTaken, events.SampleEvent{
		Index: count - 1,
		Count: count,
		Ts:    time.Now().Unix(),
	})
	return nil
}

func scheduleError(data any) {
	err, ok := data.(error)
	if !ok {
		return
	}
	logrus.Errorf("scheduled sampling: %v", err)
	sseHub.Publish(events.ScheduleError, events.ScheduleErrorEvent{
		Message: err.Error(),
		Ts:      time.Now().Unix(),
	})
}
