package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/response"
)

type unitInfo struct {
	Unit   measurement.Unit `json:"unit"`
	Symbol string           `json:"symbol"`
	Kind   string           `json:"kind"`
	ToMm3  float64          `json:"toCubicMillimeter"`
}

type convertRequest struct {
	Value  float64          `json:"value"`
	Unit   measurement.Unit `json:"unit"`
	Target measurement.Unit `json:"target,omitempty"`
}

type convertResponse struct {
	Measurement measurement.Measurement  `json:"measurement"`
	VolumeMm3   float64                  `json:"volumeMm3"`
	Volumes     measurement.VolumeSet    `json:"volumes"`
	Converted   *measurement.Measurement `json:"converted,omitempty"`
}

func newUnitsHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		units := measurement.Units()
		infos := make([]unitInfo, 0, len(units))
		for _, u := range units {
			kind := "volume"
			if u.IsMass() {
				kind = "mass"
			}
			factor, _ := u.Factor()
			infos = append(infos, unitInfo{Unit: u, Symbol: u.Symbol(), Kind: kind, ToMm3: factor})
		}

		response.RenderJSONResponse(w, response.NewCollectionResponse(infos, nil))
	}
}

func newConvertHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req convertRequest
		if err := decodeJSON(r, &req); err != nil {
			s.renderError(w, err)
			return
		}

		m, err := measurement.New(req.Value, req.Unit)
		if err != nil {
			s.renderError(w, err)
			return
		}

		volume, err := measurement.ToCanonicalVolume(m)
		if err != nil {
			s.renderError(w, err)
			return
		}

		resp := convertResponse{
			Measurement: m,
			VolumeMm3:   volume,
			Volumes:     measurement.NewVolumeSet(volume),
		}

		if req.Target != "" {
			converted, err := measurement.Convert(m, req.Target)
			if err != nil {
				s.renderError(w, err)
				return
			}
			resp.Converted = &converted
		}

		response.RenderJSONResponse(w, resp)
	}
}
