package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/sfdex/file"
	"github.com/jsphweid/sfdex/present"
	"github.com/jsphweid/sfdex/serialized"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <glob>",
	Short: "Lists the objects in serialized files",
	Long:  `Lists the objects in serialized files, ordered by path id`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd.OutOrStdout(), args[0])
	},
}

func inspect(w io.Writer, pattern string) error {
	inputs, err := file.Gather([]string{pattern})
	if err != nil {
		return err
	}

	for _, input := range inputs {
		doc, err := serialized.DecodeFiles(input.Paths)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v (version %d, %d objects)\n", input.Name(), doc.Header.Version, len(doc.Objects))
		if err := present.Summary(w, doc); err != nil {
			return err
		}
	}
	return nil
}
