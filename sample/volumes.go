package sample

import (
	"iter"

	"github.com/timgluz/dva/measurement"
)

type ConvertedVolume struct {
	Index       int                     `json:"index"`
	SampleID    string                  `json:"sampleId"`
	Measurement measurement.Measurement `json:"weightMeasurement"`
	Volumes     measurement.VolumeSet   `json:"volumes"`
}

// ConvertedVolumes yields every sample with its volume in each volume unit.
// Nothing is cached: each iteration converts the samples held at that time.
func (b *Batch) ConvertedVolumes() iter.Seq[ConvertedVolume] {
	return func(yield func(ConvertedVolume) bool) {
		for i, s := range b.samples {
			volumes, err := measurement.VolumesOf(s.WeightMeasurement)
			if err != nil {
				// samples are validated on entry
				continue
			}

			cv := ConvertedVolume{
				Index:       i,
				SampleID:    s.SampleID,
				Measurement: s.WeightMeasurement,
				Volumes:     volumes,
			}
			if !yield(cv) {
				return
			}
		}
	}
}
