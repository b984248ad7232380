package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/xh3b4sd/cirrhosis"
	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/report"
	"github.com/xh3b4sd/cirrhosis/scaler"
)

//go:embed templates/*.html
var temfs embed.FS

//go:embed static
var stafs embed.FS

type Config struct {
	// Cla is the required classifier, restored before the server starts.
	Cla cirrhosis.Classifier
	// Cor are the origins allowed to call the API from a browser. CORS is
	// disabled if Cor is empty.
	Cor []string
	// Enc are the optional label encoders of the training run. Categorical
	// fields of the input form are rendered as selections if given.
	Enc encoder.Set
	Log zerolog.Logger
	// Rep renders the PDF reports, defaults to a Report using the wall clock.
	Rep *report.Report
	// Sca is the required scaler fitted on the training data.
	Sca *scaler.Standard
}

// Server serves the web pages, predictions and reports. All fields are read
// only after New returns, so requests are handled without locking.
type Server struct {
	cla cirrhosis.Classifier
	enc encoder.Set
	han http.Handler
	log zerolog.Logger
	rep *report.Report
	sca *scaler.Standard
	tem *template.Template
}

func New(c Config) *Server {
	if c.Cla == nil {
		panic("Config.Cla must not be empty")
	}
	if c.Sca == nil {
		panic("Config.Sca must not be empty")
	}
	if c.Rep == nil {
		c.Rep = &report.Report{}
	}

	s := &Server{
		cla: c.Cla,
		enc: c.Enc,
		log: c.Log,
		rep: c.Rep,
		sca: c.Sca,
		tem: template.Must(template.ParseFS(temfs, "templates/*.html")),
	}

	var han http.Handler
	{
		han = s.router()
		han = hlog.AccessHandler(s.access)(han)
		han = requestid(han)
		han = hlog.NewHandler(s.log)(han)
		han = handlers.RecoveryHandler(handlers.RecoveryLogger(recovery{log: s.log}))(han)
	}

	if len(c.Cor) != 0 {
		han = cors.New(cors.Options{
			AllowedOrigins: c.Cor,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(han)
	}

	s.han = han

	return s
}

func (s *Server) Handler() http.Handler {
	return s.han
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/prediction", s.prediction).Methods(http.MethodGet)
	r.HandleFunc("/predict", s.predict).Methods(http.MethodPost)
	r.HandleFunc("/download_pdf", s.download).Methods(http.MethodPost)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	{
		sub, err := fs.Sub(stafs, "static")
		if err != nil {
			panic(err)
		}

		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(sub)))).Methods(http.MethodGet)
	}

	return r
}

func (s *Server) access(r *http.Request, sta int, siz int, dur time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", sta).
		Int("size", siz).
		Dur("duration", dur).
		Msg("request")
}

// requestid tags every request with a random id, which is returned in the
// X-Request-Id header and added to all log lines of the request.
func requestid(han http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}

		w.Header().Set("X-Request-Id", rid)

		log := hlog.FromRequest(r).With().Str("req_id", rid).Logger()
		han.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

type recovery struct {
	log zerolog.Logger
}

func (r recovery) Println(val ...interface{}) {
	r.log.Error().Interface("panic", val).Msg("recovered")
}
