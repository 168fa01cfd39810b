package models

import "time"

// AnalogSignal is one continuously sampled channel. When loaded lazily the
// Samples slice is nil and the signal can still be described (name, units,
// sampling rate) without touching the data file.
type AnalogSignal struct {
	Name         string    `json:"name"`
	Units        string    `json:"units"`
	SampleRateHz float64   `json:"sample_rate_hz"`
	Channel      int       `json:"channel"`
	Samples      []float64 `json:"samples,omitempty"`
	NumSamples   int       `json:"num_samples"`
}

// SpikeTrain holds spike times for one unit, in seconds from segment start.
type SpikeTrain struct {
	Name    string    `json:"name"`
	Channel int       `json:"channel"`
	Times   []float64 `json:"times"`
}

// Epoch is a labeled time interval, typically a scored behavior.
type Epoch struct {
	Label    string  `json:"label"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Event is a labeled instant.
type Event struct {
	Label string  `json:"label"`
	Time  float64 `json:"time"`
}

type Segment struct {
	Signals     []AnalogSignal `json:"signals"`
	SpikeTrains []SpikeTrain   `json:"spike_trains"`
	Epochs      []Epoch        `json:"epochs"`
	Events      []Event        `json:"events"`
}

// Block is the in-memory form of a loaded recording, the unit of exchange
// between the dataset loader and the viewer.
type Block struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RecDatetime time.Time `json:"rec_datetime"`
	SourceFile  string    `json:"source_file"`
	Lazy        bool      `json:"lazy"`
	Segments    []Segment `json:"segments"`
}

// Duration reports the length in seconds of the longest signal in the first
// segment, or zero for an empty block.
func (b *Block) Duration() float64 {
	if b == nil || len(b.Segments) == 0 {
		return 0
	}
	var longest float64
	for _, sig := range b.Segments[0].Signals {
		if sig.SampleRateHz <= 0 {
			continue
		}
		d := float64(sig.NumSamples) / sig.SampleRateHz
		if d > longest {
			longest = d
		}
	}
	return longest
}

// WindowSettings carries everything the command line decides about how the
// main window should behave and look.
type WindowSettings struct {
	File                      string `json:"file"`
	InitialSelection          string `json:"initial_selection"`
	Lazy                      bool   `json:"lazy"`
	Theme                     string `json:"theme"`
	UIScale                   string `json:"ui_scale"`
	SupportIncreasedLineWidth bool   `json:"support_increased_line_width"`
	ShowDatetime              bool   `json:"show_datetime"`
	DebugLogging              bool   `json:"debug_logging"`
}

// Download is one row of the download ledger: a remote file fetched to a
// local path.
type Download struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	FilePath  string    `json:"file_path"`
	Bytes     int64     `json:"bytes"`
	Source    string    `json:"source"` // http or gdrive
	Dataset   string    `json:"dataset"`
	FetchedAt time.Time `json:"fetched_at"`
}
