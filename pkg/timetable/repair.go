package timetable

import (
	"sort"

	"github.com/jinzhu/copier"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/rs/zerolog/log"
)

// Some feeds encode a rolling-stock rotation as a single trip: the
// outbound leg then the return the vehicle performs the next day, with
// the clock jumping backward by many hours in between. The threshold
// below is experimentally derived, not a protocol constant.
const backwardJumpThreshold = 10 * 60

// RepairStopTimes turns a trip's sequence-ordered stop times into the
// canonical non-decreasing list round-based search requires. The input
// must already be sorted by sequence number.
func RepairStopTimes(tripID string, stopTimes []rtm.StopTime) []rtm.StopTime {
	if len(stopTimes) == 0 {
		return stopTimes
	}

	segments := splitBackwardJumps(stopTimes)

	if len(segments) > 1 {
		log.Debug().Str("trip", tripID).Int("segments", len(segments)).Msg("Repairing non-monotonic trip")
		segments = mergeSegments(segments)
	}

	repaired := longestSegment(segments)

	// Concatenation can leave sequence numbers out of order, so the
	// surviving list is sorted by time rather than by sequence.
	sort.SliceStable(repaired, func(a int, b int) bool {
		return repaired[a].DepartureTime < repaired[b].DepartureTime
	})

	return repaired
}

// splitBackwardJumps cuts the list at every point where the next stop's
// time goes backward by more than the threshold.
func splitBackwardJumps(stopTimes []rtm.StopTime) [][]rtm.StopTime {
	var segments [][]rtm.StopTime

	segmentStart := 0
	for index := 1; index < len(stopTimes); index += 1 {
		if stopTimes[index].ArrivalTime < stopTimes[index-1].DepartureTime-backwardJumpThreshold {
			segments = append(segments, stopTimes[segmentStart:index])
			segmentStart = index
		}
	}
	segments = append(segments, stopTimes[segmentStart:])

	return segments
}

// mergeSegments sorts segments by their first time then re-concatenates
// adjacent segments whose boundaries are consistent: the next segment
// must start no earlier than the threshold before the previous one
// ended. An accepted merge appends onto a deep copy of the running
// segment, so the append never writes into the array the segments share
// with the input.
func mergeSegments(segments [][]rtm.StopTime) [][]rtm.StopTime {
	sort.SliceStable(segments, func(a int, b int) bool {
		return segments[a][0].DepartureTime < segments[b][0].DepartureTime
	})

	merged := [][]rtm.StopTime{segments[0]}

	for _, segment := range segments[1:] {
		current := merged[len(merged)-1]
		currentEnd := current[len(current)-1].ArrivalTime

		if segment[0].DepartureTime >= currentEnd-backwardJumpThreshold {
			var combined []rtm.StopTime
			if err := copier.CopyWithOption(&combined, current, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
				log.Error().Err(err).Msg("Failed to copy stop time segment")
				merged = append(merged, segment)
				continue
			}

			combined = append(combined, segment...)
			merged[len(merged)-1] = combined
		} else {
			merged = append(merged, segment)
		}
	}

	return merged
}

// longestSegment picks the surviving stop-time list when segments could
// not be merged back into one trip.
func longestSegment(segments [][]rtm.StopTime) []rtm.StopTime {
	longest := segments[0]
	for _, segment := range segments[1:] {
		if len(segment) > len(longest) {
			longest = segment
		}
	}

	return longest
}
