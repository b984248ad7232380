package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xh3b4sd/cirrhosis"
	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/cirrhosis/config"
	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/ensemble"
	"github.com/xh3b4sd/cirrhosis/loader"
	"github.com/xh3b4sd/cirrhosis/logger"
	"github.com/xh3b4sd/cirrhosis/scaler"
	"github.com/xh3b4sd/cirrhosis/server"
)

func serve(v *viper.Viper, fil *string) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web pages, predictions and PDF reports.",
		RunE: func(cmd *cobra.Command, arg []string) error {
			cfg, err := config.Load(v, *fil)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Lev, cfg.Frm)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, log)
		},
	}

	c.Flags().String("address", ":8000", "Listen address of the HTTP server.")
	c.Flags().String("backend", config.BackendLoader, "Inference backend, either loader or ensemble.")

	bind(v, c.Flags().Lookup("address"), "address")
	bind(v, c.Flags().Lookup("backend"), "backend")

	return c
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	dir := artifact.Dir(cfg.Art)

	{
		err := dir.Require(required(cfg.Bac)...)
		if err != nil {
			log.Fatal().Err(err).Msg("Model or scaler file is missing. Please check the file paths.")
		}
	}

	var sca *scaler.Standard
	{
		var err error

		sca, err = scaler.Load(dir.Scaler())
		if err != nil {
			log.Fatal().Err(err).Msg("loading scaler")
		}
	}

	var enc encoder.Set
	if dir.Require(artifact.EncodersFile) == nil {
		var err error

		enc, err = encoder.Load(dir.Encoders())
		if err != nil {
			log.Warn().Err(err).Msg("ignoring label encoders")
		}
	}

	cla := classifier(cfg)

	{
		log.Info().Str("backend", cfg.Bac).Str("artifact_dir", cfg.Art).Msg("restoring classifier")

		res, cancel := context.WithTimeout(ctx, cfg.Res)
		err := cla.Restore(res)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("restoring classifier")
		}
	}

	srv := &http.Server{
		Addr: cfg.Add,
		Handler: server.New(server.Config{
			Cla: cla,
			Cor: cfg.Cor,
			Enc: enc,
			Log: log,
			Sca: sca,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sig, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Add).Msg("serving http")
		lis <- srv.ListenAndServe()
	}()

	var err error
	select {
	case <-sig.Done():
		log.Info().Msg("shutting down")
	case err = <-lis:
		log.Error().Err(err).Msg("serving http")
	}

	{
		shu, cancel := context.WithTimeout(context.Background(), cfg.Shu)
		defer cancel()

		err := srv.Shutdown(shu)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("shutting down http")
		}
	}

	{
		err := cla.Sigkill()
		if err != nil {
			log.Error().Err(err).Msg("killing classifier")
		}
	}

	return err
}

func classifier(cfg config.Config) cirrhosis.Classifier {
	if cfg.Bac == config.BackendEnsemble {
		return &ensemble.Ensemble{
			Pat: cfg.Art,
		}
	}

	return &loader.Loader{
		Deb: cfg.Deb,
		Pat: cfg.Art,
		Por: cfg.Por,
		Pyt: cfg.Pyt,
	}
}

// required are the artifact files a backend cannot start without.
func required(bac string) []string {
	if bac == config.BackendEnsemble {
		return []string{artifact.ScalerFile, artifact.ManifestFile}
	}

	return []string{artifact.ModelFile, artifact.ScalerFile}
}
