package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/sfdex/file"
	"github.com/jsphweid/sfdex/present"
	"github.com/jsphweid/sfdex/serialized"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump <glob>...",
	Short: "Decodes serialized files and prints them",
	Long: `Decodes every serialized file matching the globs and prints it.
A file ending in .split0 is read together with its .split1, .split2, ... parts.
Files that fail to decode are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dump(cmd.OutOrStdout(), args, outputFormat)
	},
}

func dump(w io.Writer, patterns []string, format present.Format) error {
	inputs, err := file.Gather(patterns)
	if err != nil {
		return err
	}

	var failed int
	for _, input := range inputs {
		fmt.Fprintln(w, input.Name())

		doc, err := serialized.DecodeFiles(input.Paths)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"input": input.Name(),
				"parts": len(input.Paths),
			}).WithError(err).Error("could not decode")
			failed++
			continue
		}

		if err := present.Render(w, doc, format); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d inputs could not be decoded", failed, len(inputs))
	}
	return nil
}
