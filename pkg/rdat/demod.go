package rdat

import "math"

// SymbolRate is the R-DAT channel symbol rate in Hz.
const SymbolRate = 9408000

// trackBlocks is the duration of one head pass, in blocks, including the
// preamble and postamble regions around the 144 payload blocks.
const trackBlocks = 196

// Demodulator recovers the symbol clock and channel bits from the baseband
// RF sample stream and drives the track start/stop timer.
//
// Clock recovery works on zero crossings: each crossing indicator feeds an
// exponential moving average ring with one slot per sample position within
// a symbol period. The slot that accumulates the most crossings marks the
// symbol transition point; a bit is sliced from the integrator each time
// the ring passes that slot, and the ring is re-evaluated half a period
// away from it. If
// the ring is too flat -- the quietest slot within 97% of the loudest --
// there is no usable clock and the deframer is told so.
type Demodulator struct {
	sink SymbolSink
	atf  ATFToneReceiver

	window        []float64
	windowCurPos  int
	windowSyncPos int
	evalPos       int
	nextEvalPos   int

	clockDetected  bool
	ratioThreshold float64
	clockAlpha     float64

	lastSign   bool
	integrator float64

	trackInProgress  bool
	trackDuration    int
	trackSampleCount int

	// Zero-crossing spacing watcher for the ATF servo pilots.
	crossingInterval int
	atf2Half         int
	atf3Half         int
}

// NewDemodulator returns a demodulator for the given sample rate. The
// detection ratio (0.97) and window alpha (1/30) can be overridden
// afterwards; the 5% track duration padding is fixed.
func NewDemodulator(sampleRate float64) *Demodulator {
	spp := int(sampleRate / SymbolRate)

	d := &Demodulator{
		window:         make([]float64, spp),
		ratioThreshold: 0.97,
		clockAlpha:     1.0 / 30.0,

		// A track is 196 blocks long. Convert to samples and pad by
		// 5% so the timer never cuts a slow transport short.
		trackDuration: int(sampleRate / SymbolRate * 10 * BlockWords * trackBlocks * 1.05),
	}

	d.evalPos = spp / 2
	d.nextEvalPos = d.evalPos

	// Half periods of the ATF servo pilots, in samples. Tone 2 is the
	// 522.67 kHz sync signal and tone 3 the 784 kHz one.
	d.atf2Half = int(sampleRate / (2 * 522670))
	d.atf3Half = int(sampleRate / (2 * 784000))

	return d
}

// SetSymbolSink wires the downstream bit consumer.
func (d *Demodulator) SetSymbolSink(s SymbolSink) {
	d.sink = s
}

// SetATFToneReceiver wires the consumer of servo-pilot tone events.
func (d *Demodulator) SetATFToneReceiver(r ATFToneReceiver) {
	d.atf = r
}

// SetClockRatioThreshold overrides the min/max ratio below which the clock
// is considered locked.
func (d *Demodulator) SetClockRatioThreshold(threshold float64) {
	d.ratioThreshold = threshold
}

// SetClockAlpha overrides the clock window filter coefficient.
func (d *Demodulator) SetClockAlpha(alpha float64) {
	d.clockAlpha = alpha
}

// Process consumes a chunk of samples.
func (d *Demodulator) Process(samples []float32) {
	for _, s := range samples {
		signal := float64(s)

		sign := signal > 0.0
		zeroCross := sign != d.lastSign

		d.watchATF(zeroCross)

		// Feed the crossing indicator to the clock detector. A true
		// return means the clock is locked and now is the moment to
		// slice a bit out of the integrator.
		var cross float64
		if zeroCross {
			cross = 1.0
		}
		if d.clockDetect(cross) {
			d.sink.ReceiveBit(d.integrator > 0.0)
			d.integrator = 0.0
		}

		d.integrator += signal
		d.lastSign = sign

		if !d.trackInProgress {
			// Idle time between tracks. Has a new one started?
			if d.sink.PreambleDetected() {
				d.trackInProgress = true
				d.trackSampleCount = d.trackDuration
				d.sink.TrackDetected(true)
			}
		} else {
			d.trackSampleCount--
			if d.trackSampleCount == 0 {
				d.trackInProgress = false
				d.sink.TrackDetected(false)
			}
		}
	}
}

// Stop signals that no further input is coming.
func (d *Demodulator) Stop() {
	d.sink.Stop()
}

// watchATF measures the spacing between zero crossings while no track is
// in progress. Spacings matching the half period of a servo pilot raise a
// tone event; the framer uses the tallies to tag head azimuth.
func (d *Demodulator) watchATF(zeroCross bool) {
	if d.trackInProgress || d.atf == nil {
		d.crossingInterval = 0
		return
	}

	if !zeroCross {
		d.crossingInterval++
		return
	}

	iv := d.crossingInterval
	d.crossingInterval = 0

	switch {
	case withinTenPercent(iv, d.atf2Half):
		d.atf.ReceiveATFTone(2)
	case withinTenPercent(iv, d.atf3Half):
		d.atf.ReceiveATFTone(3)
	}
}

func withinTenPercent(v, target int) bool {
	if target == 0 {
		return false
	}
	diff := v - target
	if diff < 0 {
		diff = -diff
	}
	return diff*10 <= target
}

// clockDetect updates the energy window with one crossing indicator and
// reports whether the symbol should be sampled right now.
func (d *Demodulator) clockDetect(sample float64) bool {
	syncNow := false

	d.window[d.windowCurPos] *= 1.0 - d.clockAlpha
	d.window[d.windowCurPos] += math.Abs(sample) * d.clockAlpha

	if d.windowCurPos == d.windowSyncPos {
		syncNow = true

		// Staggered update: adopt the evaluation position computed
		// on the previous scan.
		d.evalPos = d.nextEvalPos
	}

	if d.windowCurPos == d.evalPos {
		d.evaluateClock()
	}

	d.windowCurPos++
	if d.windowCurPos == len(d.window) {
		d.windowCurPos = 0
	}

	return d.clockDetected && syncNow
}

// evaluateClock rescans the window for the highest energy peak, moves the
// sync position onto it, and rejudges whether the clock is locked.
func (d *Demodulator) evaluateClock() {
	max := 0.0
	min := 100.0
	maxI := 0

	for i, v := range d.window {
		if v > max {
			max = v
			maxI = i
		}
		if v < min {
			min = v
		}
	}

	if maxI != d.windowSyncPos {
		d.windowSyncPos = maxI
		d.nextEvalPos = (maxI + len(d.window)/2) % len(d.window)
	}

	var ratio float64
	if max > 0.0 {
		ratio = min / max
	}

	if ratio < d.ratioThreshold {
		if !d.clockDetected && d.sink != nil {
			d.sink.ClockDetected(true)
		}
		d.clockDetected = true
	} else {
		if d.clockDetected && d.sink != nil {
			d.sink.ClockDetected(false)
		}
		d.clockDetected = false
	}
}
