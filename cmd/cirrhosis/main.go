package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	err := command().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var fil string

	v := viper.New()

	c := &cobra.Command{
		Use:          "cirrhosis",
		Short:        "Predict liver cirrhosis stages from patient records.",
		SilenceUsage: true,
	}

	c.PersistentFlags().StringVar(&fil, "config", "", "Path of an optional config file, e.g. cirrhosis.yaml.")
	c.PersistentFlags().String("artifact-dir", ".", "Directory of the trained artifacts.")
	c.PersistentFlags().String("log-level", "info", "Log level, one of debug, info, warn or error.")
	c.PersistentFlags().String("log-format", "json", "Log format, either json or console.")

	bind(v, c.PersistentFlags().Lookup("artifact-dir"), "artifact_dir")
	bind(v, c.PersistentFlags().Lookup("log-level"), "log_level")
	bind(v, c.PersistentFlags().Lookup("log-format"), "log_format")

	c.AddCommand(serve(v, &fil))
	c.AddCommand(train(v, &fil))
	c.AddCommand(inspect(v, &fil))

	return c
}
