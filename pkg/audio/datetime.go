package audio

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tapeworks/rdattools/pkg/rdat"
)

// DAT provides 33 1/3 frames per second, but the date/time sub-code only
// resolves to whole seconds, and timestamps can only change at frame
// boundaries. Second changes therefore arrive in a repeating cadence:
//
//  1. 34 frames (no millisecond offset)
//  2. 33 frames (20 ms offset)
//  3. 33 frames (10 ms offset)
//
// The timestamp that follows a 34-frame second is the one closest to a
// true second boundary, so observing one locks the clock to millisecond
// precision. The lock holds as long as frames advance by exactly one and
// the synthesized seconds agree with the decoded ones.

// handleDateTime consumes the date/time sub-code item of one frame (nil
// when the pack was absent) and advances the synchronized clock.
func (r *FrameReceiver) handleDateTime(item []byte, absoluteFrame uint32) {
	var dow, year, mon, day, hour, min, sec byte
	var likelyYear int
	var absSeconds uint64
	timeIsValid := false
	droppedSync := false

	if item != nil {
		dow = item[0] & 0xf
		year = rdat.BCDDecode(item[1])
		mon = rdat.BCDDecode(item[2])
		day = rdat.BCDDecode(item[3])
		hour = rdat.BCDDecode(item[4])
		min = rdat.BCDDecode(item[5])
		sec = rdat.BCDDecode(item[6])

		if year < 80 {
			likelyYear = int(year) + 2000
		} else {
			likelyYear = int(year) + 1900
		}

		// A BCD decode of 100 means a corrupt field.
		if mon != 100 && day != 100 && hour != 100 && min != 100 && sec != 100 {
			absSeconds = secondsSince1900(likelyYear, int(mon), int(day),
				int(hour), int(min), int(sec))
			timeIsValid = true
		}
	}

	if r.haveDateTimeSync {
		if timeIsValid && absoluteFrame == r.lastAbsoluteFrameNumber+1 {
			// Still in sync so far: advance our clock by one frame
			// (30 ms) and confirm the second hand still matches
			// the transmitted one.
			r.currentMilliseconds += 30
			if r.currentMilliseconds >= 1000 {
				r.currentMilliseconds %= 1000
				r.currentSeconds++
			}

			if r.currentSeconds != absSeconds {
				r.haveDateTimeSync = false
				droppedSync = true
			}
		} else {
			// Lost the date/time sub-code or the frame stream
			// jumped.
			r.haveDateTimeSync = false
			droppedSync = true
		}
	}

	// Regardless of the sync state, keep the second-boundary engine
	// running; it may (re)establish sync when it sees a 34-frame
	// second.
	if r.haveLastDateTime && timeIsValid {
		if r.lastDateTimeSeconds != absSeconds {
			if absSeconds == r.lastDateTimeSeconds+1 {
				// Simple advancement. Two successive increments
				// are needed to measure the frame distance.
				if r.haveLastChangeFrame {
					framesPerSecond := absoluteFrame - r.lastChangeFrame
					if framesPerSecond == 34 && !r.haveDateTimeSync {
						// The frame that ends a 34-frame
						// second starts the 20 ms-offset
						// pattern.
						r.haveDateTimeSync = true
						r.currentMilliseconds = 20
						r.currentSeconds = absSeconds
					}
				}

				r.haveLastChangeFrame = true
				r.lastChangeFrame = absoluteFrame
			} else {
				// A discontinuity; the roll-over frame is no
				// longer trustworthy.
				r.haveLastChangeFrame = false
			}
		}
	}

	r.haveLastDateTime = timeIsValid
	r.lastDateTimeSeconds = absSeconds

	if droppedSync && r.haveDateTimeSync {
		log.Warn().Msg("date/time sync dropped and reestablished")
	} else if droppedSync {
		log.Warn().Msg("date/time sync dropped")
	}

	if r.haveDateTimeSync {
		log.Info().
			Uint8("weekday", dow).
			Str("date_time", formatDateTime(likelyYear, mon, day, hour, min, sec)).
			Int("milliseconds", r.currentMilliseconds).
			Bool("synced", true).
			Msg("date/time")
	} else if timeIsValid {
		log.Info().
			Uint8("weekday", dow).
			Str("date_time", formatDateTime(likelyYear, mon, day, hour, min, sec)).
			Msg("date/time")
	}
}

func formatDateTime(year int, mon, day, hour, min, sec byte) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		year, mon, day, hour, min, sec)
}

var monthDayOfYearNormal = [12]int{
	0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334,
}

var monthDayOfYearLeap = [12]int{
	0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335,
}

// secondsSince1900 maps a calendar date onto a second count.
//
// The year term is year*365*86400 counted from year zero, not 1900, so the
// absolute value is a misnomer; the 1 Hz sync logic only ever compares
// differences between observed times, for which the scale is consistent.
func secondsSince1900(year, mon, day, hour, min, sec int) uint64 {
	seconds := uint64(year) * 86400 * 365
	seconds += uint64(sec)
	seconds += uint64(min) * 60
	seconds += uint64(hour) * 3600
	seconds += uint64(day-1) * 86400

	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		seconds += uint64(monthDayOfYearLeap[mon-1]) * 86400
	} else {
		seconds += uint64(monthDayOfYearNormal[mon-1]) * 86400
	}

	// Account for the leap days inserted since January 1, 1900.
	if year > 1904 {
		leaps := (year-1)/4 - 475
		leaps -= (year-1)/100 - 19
		leaps += (year-1)/400 - 4
		seconds += uint64(leaps) * 86400
	}

	return seconds
}
