package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rx3lixir/search-connector/internal/config"
	"github.com/rx3lixir/search-connector/internal/opensearch/client"
	"github.com/rx3lixir/search-connector/internal/opensearch/search"
	"github.com/rx3lixir/search-connector/internal/server"
	"github.com/rx3lixir/search-connector/pkg/health"
	"github.com/rx3lixir/search-connector/pkg/metrics"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) compileCmd() *cobra.Command {
	var requestPath, format string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Print the OpenSearch query document for a request state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readRequestState(cmd.InOrStdin(), requestPath)
			if err != nil {
				return err
			}
			queryCfg, err := a.cfg.Query.ToQueryConfig()
			if err != nil {
				return err
			}

			query, err := search.Compile(state, queryCfg)
			if err != nil {
				return fmt.Errorf("failed to compile query: %w", err)
			}
			return writeDocument(cmd.OutOrStdout(), format, query)
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "request state JSON file, - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var requestPath string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Compile a request state and run it against OpenSearch",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readRequestState(cmd.InOrStdin(), requestPath)
			if err != nil {
				return err
			}
			queryCfg, err := a.cfg.Query.ToQueryConfig()
			if err != nil {
				return err
			}

			osClient, err := client.New(a.cfg.OpenSearch, a.log)
			if err != nil {
				return err
			}

			res, err := search.NewSearcher(osClient, a.log).Search(cmd.Context(), state, queryCfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(res.Body, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "request state JSON file, - for stdin")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /compile and /search over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	queryCfg, err := cfg.Query.ToQueryConfig()
	if err != nil {
		return err
	}

	osClient, err := client.New(cfg.OpenSearch, a.log)
	if err != nil {
		return err
	}

	checker := client.NewHealthChecker(osClient)
	if err := checker.WaitForHealthy(ctx, 5); err != nil {
		// сервис поднимается и без OpenSearch, /health покажет down
		a.log.Warnw("OpenSearch is not reachable yet", "error", err)
	}

	h := health.New(cfg.Service.Name, cfg.Service.Version)
	h.AddCheck("opensearch", health.OpenSearchChecker(checker))
	h.AddCheck("query_config", health.QueryConfigChecker(func() error {
		_, err := search.NewQueryBuilder().Build(search.RequestState{SearchTerm: "health"}, queryCfg)
		return err
	}))

	metrics.SetServiceInfo(cfg.Service.Version, cfg.Service.Name)

	srv := server.NewServer(search.NewSearcher(osClient, a.log), queryCfg, h, a.log)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, a.log)
		go func() { errCh <- metricsServer.Start() }()
	}

	go func() {
		a.log.Infow("Server is listening", "address", cfg.Server.Addr, "index", osClient.IndexName())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	a.log.Infow("Shutting down")
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			a.log.Errorw("failed to stop metrics server", "error", err)
		}
	}
	return httpServer.Shutdown(shutdownCtx)
}

func readRequestState(stdin io.Reader, path string) (search.RequestState, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return search.RequestState{}, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var params config.RequestParams
	if err := json.NewDecoder(r).Decode(&params); err != nil {
		return search.RequestState{}, fmt.Errorf("failed to decode request state: %w", err)
	}
	return params.ToRequestState()
}

func writeDocument(w io.Writer, format string, doc map[string]any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
