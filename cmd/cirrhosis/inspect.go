package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/cirrhosis/artifact"
	"github.com/xh3b4sd/cirrhosis/config"
	"github.com/xh3b4sd/cirrhosis/encoder"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/scaler"
)

func inspect(v *viper.Viper, fil *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the manifest, scaler and label encoders of the artifact directory.",
		RunE: func(cmd *cobra.Command, arg []string) error {
			cfg, err := config.Load(v, *fil)
			if err != nil {
				return err
			}

			return describe(cmd.OutOrStdout(), artifact.Dir(cfg.Art))
		},
	}
}

func describe(w io.Writer, dir artifact.Dir) error {
	var err error

	var man *artifact.Manifest
	{
		man, err = artifact.LoadManifest(dir.Manifest())
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var sca *scaler.Standard
	{
		sca, err = scaler.Load(dir.Scaler())
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var enc encoder.Set
	{
		enc, err = encoder.Load(dir.Encoders())
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		tab := tablewriter.NewWriter(w)
		tab.SetHeader([]string{"Run", "Created", "Classes", "Accuracy"})
		tab.Append([]string{
			man.Run,
			man.Cre.Format(time.RFC3339),
			ints(man.Cla),
			strconv.FormatFloat(man.Acc, 'f', 4, 64),
		})
		tab.Render()
		fmt.Fprintln(w)
	}

	{
		tab := tablewriter.NewWriter(w)
		tab.SetHeader([]string{"Member", "File", "Format"})
		for _, m := range man.Mem {
			tab.Append([]string{m.Nam, m.Fil, m.For})
		}
		tab.Render()
		fmt.Fprintln(w)
	}

	{
		if len(sca.Mea) != len(feature.Fields) {
			return tracer.Maskf(invalidArtifactError, "scaler holds %d features, expected %d", len(sca.Mea), len(feature.Fields))
		}

		tab := tablewriter.NewWriter(w)
		tab.SetHeader([]string{"Feature", "Column", "Kind", "Mean", "Scale"})
		for i, f := range feature.Fields {
			tab.Append([]string{
				f.Key,
				f.Col,
				f.Kin.String(),
				strconv.FormatFloat(sca.Mea[i], 'f', 4, 64),
				strconv.FormatFloat(sca.Sca[i], 'f', 4, 64),
			})
		}
		tab.Render()
		fmt.Fprintln(w)
	}

	{
		var col []string
		for c := range enc {
			col = append(col, c)
		}
		sort.Strings(col)

		tab := tablewriter.NewWriter(w)
		tab.SetHeader([]string{"Column", "Code", "Label"})
		for _, c := range col {
			for i, l := range enc[c].Cla {
				tab.Append([]string{c, strconv.Itoa(i), l})
			}
		}
		tab.Render()
	}

	return nil
}

func ints(val []int) string {
	var str []string
	for _, v := range val {
		str = append(str, strconv.Itoa(v))
	}

	return strings.Join(str, ", ")
}
