package cmd

import (
	"github.com/jsphweid/sfdex/constants"
	"github.com/jsphweid/sfdex/present"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel     string
	formatName   string
	outputFormat present.Format
)

var rootCmd = &cobra.Command{
	Use:   "sfdex",
	Short: "Reads serialized asset files",
	Long: `Reads serialized asset files, including ones split into
numbered .splitN parts, and prints what they contain.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return errors.Wrap(err, "--log-level")
		}
		logrus.SetLevel(level)

		outputFormat, err = present.ParseFormat(formatName)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&formatName, "format", "f", constants.DefaultFormat, "output format (text, json, yaml)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
