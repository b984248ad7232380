package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xh3b4sd/cirrhosis/config"
	"github.com/xh3b4sd/cirrhosis/logger"
	"github.com/xh3b4sd/cirrhosis/pipeline"
)

func train(v *viper.Viper, fil *string) *cobra.Command {
	c := &cobra.Command{
		Use:   "train",
		Short: "Train the voting ensemble and write all artifacts.",
		RunE: func(cmd *cobra.Command, arg []string) error {
			cfg, err := config.Load(v, *fil)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Lev, cfg.Frm)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := &pipeline.Pipeline{
				Dat: cfg.Dat,
				Deb: cfg.Deb,
				Log: log,
				Out: cmd.OutOrStdout(),
				Pat: cfg.Art,
				Pyt: cfg.Pyt,
				See: cfg.See,
				Tes: cfg.Tes,
			}

			res, err := p.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("training failed")
				return err
			}

			log.Info().Str("run", res.Man.Run).Float64("accuracy", res.Man.Acc).Msg("training finished")

			return nil
		},
	}

	c.Flags().String("dataset", "liver_cirrhosis.csv", "Path of the raw CSV dataset.")
	c.Flags().Bool("debug", false, "Forward the output of the training script.")

	bind(v, c.Flags().Lookup("dataset"), "dataset")
	bind(v, c.Flags().Lookup("debug"), "debug")

	return c
}
