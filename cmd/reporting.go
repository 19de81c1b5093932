package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitlog-go/internal/output"
)

func writeRecordReport(c *cli.Context, report *output.RecordReport) error {
	opts := OutputOptions(c)
	writer := output.NewRecordReportWriter(opts.Format)
	return writer.Write(report, opts)
}
