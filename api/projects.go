package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/response"
)

const DefaultComparisonUnit = measurement.CubicCentimeter

type projectView struct {
	project.Record
	Slug             string                `json:"slug"`
	RemainingPercent float64               `json:"remainingPercent"`
	Fit              efficiency.Fit        `json:"fit"`
	Overflow         bool                  `json:"overflow"`
	PrimaryVolumes   measurement.VolumeSet `json:"primaryVolumes"`
	SecondaryVolumes measurement.VolumeSet `json:"secondaryVolumes"`
}

func newProjectView(r project.Record) projectView {
	result := r.EfficiencyResult
	return projectView{
		Record:           r,
		Slug:             r.Slug(),
		RemainingPercent: result.RemainingPercent(),
		Fit:              result.Fit(),
		Overflow:         result.Overflows(),
		PrimaryVolumes:   measurement.NewVolumeSet(result.PrimaryVolume),
		SecondaryVolumes: measurement.NewVolumeSet(result.SecondaryVolume),
	}
}

type deleteProjectsRequest struct {
	IDs []int `json:"ids"`
}

type deleteProjectsResponse struct {
	Deleted int `json:"deleted"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

func projectID(params httprouter.Params) (int, error) {
	raw := params.ByName("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: project id %q", ErrInvalidRequest, raw)
	}
	return id, nil
}

func newProjectsHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		pagination := response.NewPaginationFromRequest(r)

		records := s.workspace.Projects.List()
		if period := r.URL.Query().Get("period"); period != "" {
			window, err := project.NewPeriodFromISO8601(period, s.now())
			if err != nil {
				s.renderError(w, err)
				return
			}
			records = s.workspace.Projects.ListCreatedWithin(window)
		}

		s.logger.Debug("Listing projects", "offset", pagination.Offset, "limit", pagination.Limit, "total", len(records))
		response.RenderJSONResponse(w, project.NewCollection(records, pagination.Offset, pagination.Limit))
	}
}

func newProjectHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		id, err := projectID(params)
		if err != nil {
			s.renderError(w, err)
			return
		}

		record, err := s.workspace.Projects.Get(id)
		if err != nil {
			s.renderError(w, err)
			return
		}

		response.RenderJSONResponse(w, newProjectView(record))
	}
}

func newCreateProjectHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var draft project.Draft
		if err := decodeJSON(r, &draft); err != nil {
			s.renderError(w, err)
			return
		}

		var created project.Record
		err := s.mutate(r.Context(), func() error {
			var err error
			created, err = s.workspace.Projects.Create(draft)
			return err
		})
		if err != nil {
			s.renderError(w, err)
			return
		}

		s.logger.Info("Project created", "id", created.ID, "efficiency", created.EfficiencyResult.EfficiencyPercent)
		response.RenderJSON(w, http.StatusCreated, newProjectView(created))
	}
}

func newUpdateProjectHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		id, err := projectID(params)
		if err != nil {
			s.renderError(w, err)
			return
		}

		var fields project.Fields
		if err := decodeJSON(r, &fields); err != nil {
			s.renderError(w, err)
			return
		}

		var updated project.Record
		err = s.mutate(r.Context(), func() error {
			var err error
			updated, err = s.workspace.Projects.Update(id, fields)
			return err
		})
		if err != nil {
			s.renderError(w, err)
			return
		}

		s.logger.Info("Project updated", "id", updated.ID)
		response.RenderJSONResponse(w, newProjectView(updated))
	}
}

func newDeleteProjectsHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req deleteProjectsRequest
		if err := decodeJSON(r, &req); err != nil {
			s.renderError(w, err)
			return
		}

		var deleted int
		err := s.mutate(r.Context(), func() error {
			deleted = s.workspace.Projects.Delete(req.IDs...)
			return nil
		})
		if err != nil {
			s.renderError(w, err)
			return
		}

		s.logger.Info("Projects deleted", "requested", len(req.IDs), "deleted", deleted)
		message := fmt.Sprintf("%d of %d projects deleted", deleted, len(req.IDs))
		response.RenderJSONResponse(w, response.NewPostResponse(true, message, deleteProjectsResponse{Deleted: deleted}))
	}
}

func newComparisonHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		query := r.URL.Query()

		unit := DefaultComparisonUnit
		if raw := query.Get("unit"); raw != "" {
			parsed, err := measurement.ParseUnit(raw)
			if err != nil {
				s.renderError(w, err)
				return
			}
			unit = parsed
		}

		var ids []int
		if raw := query.Get("ids"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					s.renderError(w, fmt.Errorf("%w: project id %q", ErrInvalidRequest, part))
					return
				}
				ids = append(ids, id)
			}
		}

		rows, err := s.workspace.Projects.Compare(unit, ids...)
		if err != nil {
			s.renderError(w, err)
			return
		}

		response.RenderJSONResponse(w, response.NewCollectionResponse(rows, nil))
	}
}
