package honeypot

import (
	"encoding/json"
	"os"

	"qhoneypot-sim/internal/timeline"
)

// FileWriter writes samples, intrusion markers, events, and state rows to
// JSONL files.
type FileWriter struct {
	sampleFile    *os.File
	intrusionFile *os.File
	eventFile     *os.File
	stateFile     *os.File
	sampleEnc     *json.Encoder
	intrusionEnc  *json.Encoder
	eventEnc      *json.Encoder
	stateEnc      *json.Encoder
}

// NewFileWriter creates a FileWriter. intrusionPath, eventPath, or
// statePath may be empty to skip those logs.
func NewFileWriter(samplePath, intrusionPath, eventPath, statePath string) (*FileWriter, error) {
	sf, err := os.Create(samplePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{sampleFile: sf, sampleEnc: json.NewEncoder(sf)}
	if intrusionPath != "" {
		f, err := os.Create(intrusionPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.intrusionFile = f
		fw.intrusionEnc = json.NewEncoder(f)
	}
	if eventPath != "" {
		f, err := os.Create(eventPath)
		if err != nil {
			if fw.intrusionFile != nil {
				fw.intrusionFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.eventFile = f
		fw.eventEnc = json.NewEncoder(f)
	}
	if statePath != "" {
		f, err := os.Create(statePath)
		if err != nil {
			if fw.intrusionFile != nil {
				fw.intrusionFile.Close()
			}
			if fw.eventFile != nil {
				fw.eventFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.stateFile = f
		fw.stateEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// Write logs a single sample.
func (f *FileWriter) Write(s timeline.Sample) error {
	return f.sampleEnc.Encode(s)
}

// WriteBatch logs multiple samples.
func (f *FileWriter) WriteBatch(samples []timeline.Sample) error {
	for _, s := range samples {
		if err := f.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteIntrusion logs a single intrusion marker, if enabled.
func (f *FileWriter) WriteIntrusion(i timeline.Intrusion) error {
	if f.intrusionEnc == nil {
		return nil
	}
	return f.intrusionEnc.Encode(i)
}

// WriteEvent logs a single security log event, if enabled.
func (f *FileWriter) WriteEvent(e timeline.Event) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(e)
}

// WriteState logs a trap state row, if enabled.
func (f *FileWriter) WriteState(row timeline.StateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// WriteAlert logs an alert to the event file, if enabled.
func (f *FileWriter) WriteAlert(a Alert) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(a)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.sampleFile != nil {
		if e := f.sampleFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.intrusionFile != nil {
		if e := f.intrusionFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
