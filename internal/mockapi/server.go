// Package mockapi is an in-memory REST API following the conventions the
// adapter expects: JSON bodies, 201 Created with a Location header, a page
// query parameter for listings and {"message", "errors"} error bodies. It
// backs the adapter tests and the serve-mock command.
package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/tansive/restadapter/internal/common/httpx"
	"github.com/tansive/restadapter/internal/common/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPageSize is the number of records in a listing page when the
// request does not set per_page.
const DefaultPageSize = 10

// Options configures a Server.
type Options struct {
	BasePath    string              // prefix of every route, e.g. /v1
	Collections []string            // served collections; empty serves any name
	PageSize    int                 // records per page
	Required    map[string][]string // collection -> fields required on create and replace
	HandleCORS  bool
	Timeout     time.Duration // per-request deadline; zero disables it

	// LocationOnly makes create answer 201 with an empty body, leaving the
	// client to fetch the record from the Location header.
	LocationOnly bool
}

// Server is the mock API.
type Server struct {
	Router *chi.Mux
	store  *store
	opts   Options
}

// New creates a Server with its routes mounted.
func New(opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	opts.BasePath = "/" + strings.Trim(opts.BasePath, "/")
	s := &Server{
		Router: chi.NewRouter(),
		store:  newStore(opts.Collections),
		opts:   opts,
	}
	s.MountHandlers()
	return s
}

// MountHandlers sets up middleware and routes.
func (s *Server) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if s.opts.Timeout > 0 {
		s.Router.Use(middleware.SetTimeout(s.opts.Timeout))
	}
	if s.opts.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Route(s.opts.BasePath, func(r chi.Router) {
		r.Get("/", httpx.WrapHttpRsp(s.listCollections))
		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", httpx.WrapHttpRsp(s.findRecords))
			r.Post("/", httpx.WrapHttpRsp(s.createRecord))
			r.Get("/{id}", httpx.WrapHttpRsp(s.getRecord))
			r.Put("/{id}", httpx.WrapHttpRsp(s.replaceRecord))
			r.Post("/{id}", httpx.WrapHttpRsp(s.replaceRecord))
			r.Patch("/{id}", httpx.WrapHttpRsp(s.mergeRecord))
			r.Delete("/{id}", httpx.WrapHttpRsp(s.deleteRecord))
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// HandleCORS allows cross-origin use of the API from browsers and exposes
// the Location header.
func (s *Server) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Location", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// Seed inserts records into collection, as a create request would.
func (s *Server) Seed(collection string, records ...any) error {
	c, ok := s.store.collection(collection)
	if !ok {
		return ErrUnknownCollection.Msg("unknown collection: " + collection)
	}
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return ErrStore.Err(err)
		}
		if _, _, err := c.insert(b); err != nil {
			return err
		}
	}
	log.Debug().Str("collection", collection).Int("records", len(records)).Msg("collection seeded")
	return nil
}
