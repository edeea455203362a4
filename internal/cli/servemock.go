package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tansive/restadapter/internal/mockapi"
)

type serveMockOptions struct {
	addr         string
	basePath     string
	collections  []string
	required     []string
	pageSize     int
	locationOnly bool
	cors         bool
	timeout      time.Duration
}

func (a *app) newServeMockCmd() *cobra.Command {
	opts := &serveMockOptions{}
	cmd := &cobra.Command{
		Use:   "serve-mock [flags]",
		Short: "Serve an in-memory REST API",
		Long: `Serve an in-memory REST API that follows the conventions the adapter
expects. Records live only as long as the process.

Examples:
  # Serve any collection name on :8080
  restadapter serve-mock

  # Serve two collections under /v1, requiring a name on widgets
  restadapter serve-mock --base-path /v1 --collections widgets,gadgets --required widgets=name

  # Answer creates with a Location header only
  restadapter serve-mock --location-only`,
		Annotations: map[string]string{skipConfig: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mo, err := opts.mockOptions()
			if err != nil {
				return err
			}
			return runMockServer(cmd.Context(), opts.addr, mockapi.New(mo))
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&opts.basePath, "base-path", "", "Path prefix of every route")
	cmd.Flags().StringSliceVar(&opts.collections, "collections", nil, "Collections to serve (default: any)")
	cmd.Flags().StringArrayVar(&opts.required, "required", nil, "Required fields as collection=field[,field...] (repeatable)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", mockapi.DefaultPageSize, "Records per listing page")
	cmd.Flags().BoolVar(&opts.locationOnly, "location-only", false, "Answer creates with an empty body and a Location header")
	cmd.Flags().BoolVar(&opts.cors, "cors", false, "Handle CORS requests")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout")
	return cmd
}

func (o *serveMockOptions) mockOptions() (mockapi.Options, error) {
	required := map[string][]string{}
	for _, r := range o.required {
		col, fields, ok := strings.Cut(r, "=")
		if !ok || col == "" || fields == "" {
			return mockapi.Options{}, fmt.Errorf("invalid --required %q, expected collection=field[,field...]", r)
		}
		required[col] = append(required[col], strings.Split(fields, ",")...)
	}
	return mockapi.Options{
		BasePath:     o.basePath,
		Collections:  o.collections,
		PageSize:     o.pageSize,
		Required:     required,
		HandleCORS:   o.cors,
		Timeout:      o.timeout,
		LocationOnly: o.locationOnly,
	}, nil
}

// runMockServer serves h on addr until ctx is done or the process receives
// an interrupt.
func runMockServer(ctx context.Context, addr string, h http.Handler) error {
	slog := log.With().Str("state", "serve-mock").Logger()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("addr", addr).Msg("mock api started")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info().Msg("shutdown signal received")
	}

	// Give outstanding requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error().Err(err).Msg("could not stop server gracefully")
		return srv.Close()
	}
	slog.Info().Msg("mock api stopped")
	return nil
}
