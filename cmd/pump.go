package cmd

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/tapeworks/rdattools/pkg/config"
	"github.com/tapeworks/rdattools/pkg/input"
	"github.com/tapeworks/rdattools/pkg/rdat"
)

// samplesPerRead is the chunk size of the outer sample pump.
const samplesPerRead = 1000

// buildPipeline wires the decode chain for one run. With a nil streamer
// the word receiver runs in raw dump mode; otherwise completed tracks flow
// through the framer into the streamer.
func buildPipeline(cfg config.Config, streamer rdat.FrameReceiver) *rdat.Demodulator {
	demod := rdat.NewDemodulator(cfg.SampleRate)
	demod.SetClockRatioThreshold(cfg.ClockRatioThreshold)
	demod.SetClockAlpha(cfg.ClockAlpha)

	var blocker *rdat.WordReceiver
	if streamer == nil {
		blocker = rdat.NewWordReceiver(nil, true)
	} else {
		tracker := rdat.NewTrackFramer(streamer)
		tracker.SetATF3Threshold(cfg.ATF3Threshold)
		blocker = rdat.NewWordReceiver(tracker, false)
		demod.SetATFToneReceiver(tracker)
	}

	demod.SetSymbolSink(rdat.NewDeframer(blocker))

	return demod
}

// openInput opens the named sample file, or stdin for an empty name.
func openInput(path string) (*input.Reader, error) {
	if path == "" {
		return input.FromFile(os.Stdin), nil
	}
	return input.Open(path)
}

// pump drives samples through the pipeline until end of input or SIGINT,
// then runs the pipeline's stop sequence. The current chunk always
// completes; the interrupt is only polled between reads.
func pump(in *input.Reader, demod *rdat.Demodulator) {
	var running atomic.Bool
	running.Store(true)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		running.Store(false)
	}()

	buf := make([]float32, samplesPerRead)

	for running.Load() {
		n := in.Read(buf)
		if n == 0 {
			break
		}
		demod.Process(buf[:n])
	}

	demod.Stop()
	in.Close()
}
