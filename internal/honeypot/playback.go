package honeypot

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"qhoneypot-sim/internal/timeline"
)

// ReplayLog replays recorded samples from r to writer. A speed >0 inserts
// the original inter-sample delays scaled by speed; with speed <= 0 the
// samples are flushed immediately, batched when the writer supports it.
func ReplayLog(r io.Reader, writer SampleWriter, speed float64) error {
	dec := json.NewDecoder(r)

	if speed <= 0 {
		var samples []timeline.Sample
		for {
			var s timeline.Sample
			if err := dec.Decode(&s); err != nil {
				if err == io.EOF {
					break
				}
				return err
			}
			samples = append(samples, s)
		}
		if len(samples) == 0 {
			return nil
		}
		if bw, ok := writer.(batchSampleWriter); ok {
			return bw.WriteBatch(samples)
		}
		for _, s := range samples {
			if err := writer.Write(s); err != nil {
				return err
			}
		}
		return nil
	}

	var prev time.Time
	for {
		var s timeline.Sample
		if err := dec.Decode(&s); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() {
			diff := s.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(s); err != nil {
			return err
		}
		prev = s.Timestamp
	}
}

// ReplayLogFile opens a file and replays its samples.
func ReplayLogFile(path string, writer SampleWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
