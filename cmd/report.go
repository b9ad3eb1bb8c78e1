package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/sfdex/file"
	"github.com/jsphweid/sfdex/model"
	"github.com/jsphweid/sfdex/serialized"
	"github.com/jsphweid/sfdex/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <glob>...",
	Short: "Creates a report",
	Long:  `Decodes every matching serialized file and reports totals`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := file.Gather(args)
		if err != nil {
			return err
		}
		writeReport(cmd.OutOrStdout(), analyzeInputs(inputs))
		return nil
	},
}

type inputsReport struct {
	numInputs      int64
	numSplit       int64
	numDecoded     int64
	numFailed      int64
	numObjects     int64
	numClasses     int64
	numScriptTypes int64
	numExternals   int64
	totalBytes     uint64
	objectBytes    uint64
	versions       map[int32]int64
}

func analyzeInputs(inputs []model.Input) inputsReport {
	report := inputsReport{versions: make(map[int32]int64)}

	for _, input := range inputs {
		report.numInputs += 1
		if input.Split {
			report.numSplit += 1
		}

		sizes, err := util.FileSizes(input.Paths)
		if err == nil {
			report.totalBytes += util.Sum(sizes)
		}

		doc, err := serialized.DecodeFiles(input.Paths)
		if err != nil {
			logrus.WithField("input", input.Name()).WithError(err).Warn("skipping")
			report.numFailed += 1
			continue
		}

		report.numDecoded += 1
		report.versions[doc.Header.Version] += 1
		report.numObjects += int64(len(doc.Objects))
		report.numClasses += int64(len(doc.Types.Classes))
		report.numScriptTypes += int64(len(doc.ScriptTypes))
		report.numExternals += int64(len(doc.Externals))
		for _, obj := range doc.Objects {
			report.objectBytes += uint64(obj.ByteSize)
		}
	}

	return report
}

func writeReport(w io.Writer, report inputsReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "inputs\t%s\t(%s split)\n", humanize.Comma(report.numInputs), humanize.Comma(report.numSplit))
	fmt.Fprintf(tw, "decoded\t%s\n", humanize.Comma(report.numDecoded))
	fmt.Fprintf(tw, "failed\t%s\n", humanize.Comma(report.numFailed))
	for _, version := range util.GetKeys(report.versions) {
		fmt.Fprintf(tw, "version %d\t%s\n", version, humanize.Comma(report.versions[version]))
	}
	fmt.Fprintf(tw, "objects\t%s\t(%s)\n", humanize.Comma(report.numObjects), humanize.IBytes(report.objectBytes))
	fmt.Fprintf(tw, "classes\t%s\n", humanize.Comma(report.numClasses))
	fmt.Fprintf(tw, "script types\t%s\n", humanize.Comma(report.numScriptTypes))
	fmt.Fprintf(tw, "externals\t%s\n", humanize.Comma(report.numExternals))
	fmt.Fprintf(tw, "bytes on disk\t%s\n", humanize.IBytes(report.totalBytes))
	tw.Flush()
}
