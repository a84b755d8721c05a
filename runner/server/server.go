package server

import (
	"context"
	"embed"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/bluele/gcache"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/projectdiscovery/gologger"
	"github.com/rs/xid"

	"github.com/projectdiscovery/sentix/common/classifier"
	"github.com/projectdiscovery/sentix/common/sentiment"
)

const (
	reviewField     = "review"
	shutdownTimeout = 5 * time.Second
	// maxFormMemory bounds the in-memory part of a multipart body
	maxFormMemory = 32 << 20
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// Predictor classifies reviews. *sentiment.Pipeline satisfies it.
type Predictor interface {
	Normalize(review string) string
	Predict(review string) sentiment.Prediction
}

type Options struct {
	Listen string
	// CacheSize > 0 memoizes predictions keyed by the cleaned review
	CacheSize int
}

type Server struct {
	options   Options
	predictor Predictor
	cache     gcache.Cache
	router    *httprouter.Router
}

type view struct {
	Review    string
	Sentiment classifier.Label
}

// New builds the handler around an already fitted predictor
func New(predictor Predictor, options Options) (*Server, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	s := &Server{options: options, predictor: predictor}
	if options.CacheSize > 0 {
		s.cache = gcache.New(options.CacheSize).LRU().Build()
	}

	s.router = httprouter.New()
	s.router.GET("/", s.index)
	s.router.POST("/", s.index)
	return s, nil
}

// Handler returns the http handler serving the form
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.options.Listen)
	if err != nil {
		return errors.Wrapf(err, "could not listen on %s", s.options.Listen)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(listener)
	}()
	gologger.Info().Msgf("Listening on http://%s\n", listener.Addr())

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "could not shutdown server")
	}
	return nil
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gologger.Verbose().Msgf("[%v] %v %v", r.RemoteAddr, r.Method, r.RequestURI)

	var data view
	if r.Method == http.MethodPost {
		if err := parseForm(r); err != nil {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		values, ok := r.PostForm[reviewField]
		if !ok || len(values) == 0 {
			http.Error(w, "Bad Request: missing form field \""+reviewField+"\"", http.StatusBadRequest)
			return
		}
		data.Review = values[0]
		prediction := s.predict(data.Review)
		data.Sentiment = prediction.Label

		gologger.Debug().
			Str("id", xid.New().String()).
			Str("label", prediction.Label.String()).
			Msgf("confidence=%.4f cleaned=%q", prediction.Confidence, prediction.Cleaned)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		gologger.Error().Msgf("Could not render view: %s\n", err)
	}
}

// parseForm fills r.PostForm from urlencoded or multipart bodies
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

func (s *Server) predict(review string) sentiment.Prediction {
	if s.cache == nil {
		return s.predictor.Predict(review)
	}
	cleaned := s.predictor.Normalize(review)
	if value, err := s.cache.Get(cleaned); err == nil {
		if prediction, ok := value.(sentiment.Prediction); ok {
			prediction.Review = review
			return prediction
		}
	}
	prediction := s.predictor.Predict(review)
	_ = s.cache.Set(cleaned, prediction)
	return prediction
}
