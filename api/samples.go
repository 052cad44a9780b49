package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/response"
	"github.com/timgluz/dva/sample"
)

type sampleItem struct {
	Index int `json:"index"`
	sample.Sample
	Duplicate bool `json:"duplicate"`
}

type addSampleRequest struct {
	SampleID          string                  `json:"sampleId"`
	WeightMeasurement measurement.Measurement `json:"weightMeasurement"`
}

func newSamplesHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		batch := s.workspace.Samples
		duplicates := batch.Duplicates()

		samples := batch.List()
		items := make([]sampleItem, 0, len(samples))
		for i, smp := range samples {
			_, dup := duplicates[smp.SampleID]
			items = append(items, sampleItem{Index: i, Sample: smp, Duplicate: dup})
		}

		response.RenderJSONResponse(w, response.NewCollectionResponse(items, nil))
	}
}

func newAddSampleHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req addSampleRequest
		if err := decodeJSON(r, &req); err != nil {
			s.renderError(w, err)
			return
		}

		var added sample.Sample
		err := s.mutate(r.Context(), func() error {
			var err error
			added, err = s.workspace.Samples.Add(req.SampleID, req.WeightMeasurement)
			return err
		})
		if err != nil {
			s.renderError(w, err)
			return
		}

		s.logger.Info("Sample added", "sampleID", added.SampleID)
		response.RenderJSON(w, http.StatusCreated, added)
	}
}

func newRemoveSampleHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		raw := params.ByName("index")
		index, err := strconv.Atoi(raw)
		if err != nil {
			s.renderError(w, fmt.Errorf("%w: sample index %q", ErrInvalidRequest, raw))
			return
		}

		var removed sample.Sample
		err = s.mutate(r.Context(), func() error {
			var err error
			removed, err = s.workspace.Samples.Remove(index)
			return err
		})
		if err != nil {
			s.renderError(w, err)
			return
		}

		s.logger.Info("Sample removed", "index", index, "sampleID", removed.SampleID)
		message := fmt.Sprintf("sample %d removed", index)
		response.RenderJSONResponse(w, response.NewPostResponse(true, message, removed))
	}
}

func newImportSamplesHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var rows []sample.ImportRow
		if err := decodeJSON(r, &rows); err != nil {
			s.renderError(w, err)
			return
		}

		report, err := s.importer.Run(r.Context(), s.workspace, rows)
		switch {
		case errors.Is(err, sample.ErrPartialImportFailure):
			response.RenderJSON(w, http.StatusMultiStatus, report)
		case err != nil:
			s.renderError(w, err)
		default:
			response.RenderJSONResponse(w, report)
		}
	}
}

func newSampleVolumesHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		volumes := []sample.ConvertedVolume{}
		for cv := range s.workspace.Samples.ConvertedVolumes() {
			volumes = append(volumes, cv)
		}

		response.RenderJSONResponse(w, response.NewCollectionResponse(volumes, nil))
	}
}
