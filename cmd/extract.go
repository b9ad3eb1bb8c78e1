package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/sfdex/chunk"
	"github.com/jsphweid/sfdex/file"
	"github.com/jsphweid/sfdex/sample"
	"github.com/jsphweid/sfdex/serialized"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file> <path id> <out>",
	Short: "Writes the raw bytes of one object",
	Long: `Writes the raw bytes of one object to <out>, or to stdout when <out> is "-".
<file> may be the .split0 part of a split file.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pathID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "path id")
		}

		if args[2] == "-" {
			_, err = extract(cmd.OutOrStdout(), args[0], pathID)
			return err
		}

		out, err := os.Create(args[2])
		if err != nil {
			return err
		}
		defer out.Close()

		n, err := extract(out, args[0], pathID)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"path_id": pathID, "bytes": n, "out": args[2]}).Info("extracted object")
		return out.Close()
	},
}

func inputPaths(path string) []string {
	if filepath.Ext(path) == ".split0" {
		if parts := file.SplitParts(path); len(parts) > 0 {
			return parts
		}
	}
	return []string{path}
}

func extract(w io.Writer, path string, pathID int64) (int64, error) {
	s, err := chunk.Open(inputPaths(path))
	if err != nil {
		return 0, err
	}
	defer s.Close()

	doc, err := serialized.Decode(s)
	if err != nil {
		return 0, err
	}
	return sample.Object(s, doc, pathID, w)
}
