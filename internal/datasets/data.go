package datasets

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"neurotic/internal/logging"
	"neurotic/pkg/models"
)

// lazySignal mirrors models.AnalogSignal but leaves the sample array as raw
// JSON so a lazy load never parses it.
type lazySignal struct {
	Name         string          `json:"name"`
	Units        string          `json:"units"`
	SampleRateHz float64         `json:"sample_rate_hz"`
	Channel      int             `json:"channel"`
	NumSamples   int             `json:"num_samples"`
	Samples      json.RawMessage `json:"samples"`
}

type lazySegment struct {
	Signals     []lazySignal        `json:"signals"`
	SpikeTrains []models.SpikeTrain `json:"spike_trains"`
	Epochs      []models.Epoch      `json:"epochs"`
	Events      []models.Event      `json:"events"`
}

type lazyBlock struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	RecDatetime time.Time     `json:"rec_datetime"`
	Segments    []lazySegment `json:"segments"`
}

// LoadDataset loads the recording described by md into memory. If blk is
// non-nil it is returned unchanged, letting callers hand in an existing
// block. With lazy set, signal sample arrays are left unparsed and only
// their descriptions are kept.
func LoadDataset(md *Metadata, blk *models.Block, lazy bool) (*models.Block, error) {
	if blk != nil {
		return blk, nil
	}
	if md == nil || md.DataFile == "" {
		return nil, fmt.Errorf("no data file specified for dataset")
	}

	path := md.LocalPath(md.DataFile)
	logging.Debug("Loading data file", "path", path, "lazy", lazy)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var lb lazyBlock
	if err := json.Unmarshal(raw, &lb); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	blk = &models.Block{
		Name:        lb.Name,
		Description: lb.Description,
		RecDatetime: lb.RecDatetime,
		SourceFile:  path,
		Lazy:        lazy,
	}
	if blk.Name == "" {
		blk.Name = md.Name
	}

	for _, seg := range lb.Segments {
		out := models.Segment{
			SpikeTrains: seg.SpikeTrains,
			Epochs:      seg.Epochs,
			Events:      seg.Events,
		}
		for _, sig := range seg.Signals {
			s := models.AnalogSignal{
				Name:         sig.Name,
				Units:        sig.Units,
				SampleRateHz: sig.SampleRateHz,
				Channel:      sig.Channel,
				NumSamples:   sig.NumSamples,
			}
			if !lazy && len(sig.Samples) > 0 {
				if err := json.Unmarshal(sig.Samples, &s.Samples); err != nil {
					return nil, fmt.Errorf("failed to parse samples for signal %q: %w", sig.Name, err)
				}
				s.NumSamples = len(s.Samples)
			}
			out.Signals = append(out.Signals, s)
		}
		blk.Segments = append(blk.Segments, out)
	}

	return blk, nil
}
