// Package sample keeps an ordered batch of weighed samples and converts them
// to displaced volumes on demand.
package sample

import (
	"errors"
	"fmt"
	"strings"

	"github.com/timgluz/dva/measurement"
)

var (
	ErrOutOfRange           = errors.New("sample index out of range")
	ErrMissingSampleID      = errors.New("sample id is required")
	ErrPartialImportFailure = errors.New("some import rows were rejected")
)

type Sample struct {
	SampleID          string                  `json:"sampleId"`
	WeightMeasurement measurement.Measurement `json:"weightMeasurement"`
}

func (s Sample) Validate() error {
	if strings.TrimSpace(s.SampleID) == "" {
		return ErrMissingSampleID
	}

	if err := s.WeightMeasurement.Validate(); err != nil {
		return fmt.Errorf("sample %q: %w", s.SampleID, err)
	}

	return nil
}

// Batch is an ordered sequence of samples. Insertion order is kept because
// report tables list samples the way they were entered.
// Sample ids may repeat; Duplicates reports them.
type Batch struct {
	samples []Sample
}

func NewBatch(samples ...Sample) (*Batch, error) {
	b := &Batch{}
	if err := b.Restore(samples); err != nil {
		return nil, err
	}
	return b, nil
}

// Add appends a sample after validating its id and measurement.
func (b *Batch) Add(sampleID string, weight measurement.Measurement) (Sample, error) {
	s := Sample{SampleID: strings.TrimSpace(sampleID), WeightMeasurement: weight}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}

	b.samples = append(b.samples, s)
	return s, nil
}

// Remove deletes the sample at index and returns it.
func (b *Batch) Remove(index int) (Sample, error) {
	if index < 0 || index >= len(b.samples) {
		return Sample{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(b.samples))
	}

	removed := b.samples[index]
	b.samples = append(b.samples[:index], b.samples[index+1:]...)
	return removed, nil
}

func (b *Batch) Get(index int) (Sample, error) {
	if index < 0 || index >= len(b.samples) {
		return Sample{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(b.samples))
	}
	return b.samples[index], nil
}

func (b *Batch) Len() int {
	return len(b.samples)
}

// List returns a copy of the samples in insertion order.
func (b *Batch) List() []Sample {
	samples := make([]Sample, len(b.samples))
	copy(samples, b.samples)
	return samples
}

// Duplicates maps every sample id used more than once to the indexes holding it.
func (b *Batch) Duplicates() map[string][]int {
	positions := make(map[string][]int)
	for i, s := range b.samples {
		positions[s.SampleID] = append(positions[s.SampleID], i)
	}

	duplicates := make(map[string][]int)
	for id, indexes := range positions {
		if len(indexes) > 1 {
			duplicates[id] = indexes
		}
	}
	return duplicates
}

// Restore replaces the batch content. Nothing changes when a sample is invalid.
func (b *Batch) Restore(samples []Sample) error {
	restored := make([]Sample, 0, len(samples))
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sample #%d: %w", i, err)
		}
		restored = append(restored, s)
	}

	b.samples = restored
	return nil
}

// DefaultSamples are the seed samples used when no sample data exists yet.
func DefaultSamples() []Sample {
	return []Sample{
		{SampleID: "Sample-001", WeightMeasurement: measurement.Measurement{Value: 150, Unit: measurement.Gram}},
		{SampleID: "Sample-002", WeightMeasurement: measurement.Measurement{Value: 5.5, Unit: measurement.Ounce}},
		{SampleID: "Sample-003", WeightMeasurement: measurement.Measurement{Value: 2.3, Unit: measurement.Pound}},
		{SampleID: "Sample-004", WeightMeasurement: measurement.Measurement{Value: 0.75, Unit: measurement.Kilogram}},
		{SampleID: "Sample-005", WeightMeasurement: measurement.Measurement{Value: 250, Unit: measurement.Gram}},
	}
}
