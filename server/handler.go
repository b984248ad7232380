package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/patient"
	"github.com/xh3b4sd/cirrhosis/report"
	"github.com/xh3b4sd/cirrhosis/stage"
)

// maxbyt limits the size of request bodies.
const maxbyt = 1 << 20

type field struct {
	Key string
	Lab string
	Opt []option
}

type option struct {
	Val int
	Tex string
}

// result is the prediction response. formData echoes the request in the order
// it was received.
type result struct {
	Nam string        `json:"patient_name"`
	Sta string        `json:"stage"`
	Pre string        `json:"precautions"`
	For *patient.Form `json:"formData"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", nil)
}

func (s *Server) prediction(w http.ResponseWriter, r *http.Request) {
	var fie []field
	for _, f := range feature.Fields {
		fie = append(fie, field{
			Key: f.Key,
			Lab: report.Label(f.Key),
			Opt: s.options(f.Col),
		})
	}

	s.render(w, r, "prediction.html", map[string]interface{}{
		"Fields": fie,
		"Name":   feature.Name,
	})
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	frm := patient.NewForm()
	{
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxbyt)).Decode(frm)
		if err != nil {
			log.Error().Err(err).Msg("decoding prediction request")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %s", err))
			return
		}
	}

	var vec []float64
	var nam string
	{
		var err error

		vec, nam, err = patient.Validate(frm)
		if msg := patient.Message(err); msg != "" {
			log.Debug().Err(err).Msg("rejecting prediction request")
			failure(w, http.StatusBadRequest, msg)
			return
		} else if err != nil {
			log.Error().Err(err).Msg("validating prediction request")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %s", err))
			return
		}
	}

	var cla int
	{
		sca, err := s.sca.Transform(vec)
		if err != nil {
			log.Error().Err(err).Msg("scaling prediction request")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %s", err))
			return
		}

		cla, err = s.cla.Predict(r.Context(), sca)
		if err != nil {
			log.Error().Err(err).Msg("predicting stage")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("Prediction failed: %s", err))
			return
		}
	}

	des, pre := stage.Describe(cla)

	log.Info().Int("class", cla).Msg("predicted stage")

	respond(w, http.StatusOK, result{
		Nam: nam,
		Sta: des,
		Pre: pre,
		For: frm,
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var res report.Result
	{
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxbyt))
		dec.UseNumber()

		err := dec.Decode(&res)
		if err != nil {
			log.Error().Err(err).Msg("decoding report request")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %s", err))
			return
		}
	}

	var byt []byte
	{
		var err error

		byt, err = s.rep.Render(res)
		if err != nil {
			log.Error().Err(err).Msg("rendering report")
			failure(w, http.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %s", err))
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.Filename(res)}))
	w.Header().Set("Content-Length", strconv.Itoa(len(byt)))
	w.WriteHeader(http.StatusOK)
	w.Write(byt)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// options returns the selectable values of a categorical column, ordered by
// their encoding.
func (s *Server) options(col string) []option {
	lab, ok := s.enc[col]
	if !ok || lab == nil {
		return nil
	}

	var opt []option
	for i, c := range lab.Cla {
		opt = append(opt, option{Val: i, Tex: c})
	}

	return opt
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, nam string, dat interface{}) {
	var buf bytes.Buffer

	err := s.tem.ExecuteTemplate(&buf, nam, dat)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", nam).Msg("rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func failure(w http.ResponseWriter, sta int, msg string) {
	respond(w, sta, map[string]string{"error": msg})
}

func respond(w http.ResponseWriter, sta int, dat interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(sta)
	json.NewEncoder(w).Encode(dat)
}
