package repositories

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/temirov/repotree/internal/utils"
)

const (
	summaryHeaderRepositoryConstant = "REPOSITORY"
	summaryHeaderDirectoryConstant  = "DIRECTORY"
	summaryHeaderStatusConstant     = "STATUS"
	summaryHeaderDetailConstant     = "DETAIL"
	summaryWorkingDirectoryConstant = "(working directory)"
	summaryBranchTemplateConstant   = "branch %s"
	summaryTotalsTemplateConstant   = "%d processed, %d failed\n"
)

// RenderSummary writes a table with one row per outcome to writer, followed by a totals line.
func RenderSummary(writer io.Writer, result Result) {
	flushingWriter := utils.NewFlushingWriter(writer)
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(flushingWriter)
	summaryTable.AppendHeader(table.Row{
		summaryHeaderRepositoryConstant,
		summaryHeaderDirectoryConstant,
		summaryHeaderStatusConstant,
		summaryHeaderDetailConstant,
	})
	for _, outcome := range result.Outcomes {
		summaryTable.AppendRow(table.Row{
			describeRepository(outcome),
			outcome.Directory,
			string(outcome.Status),
			describeDetail(outcome),
		})
	}
	summaryTable.Render()
	fmt.Fprintf(flushingWriter, summaryTotalsTemplateConstant, len(result.Outcomes), len(result.Failures()))
}

func describeRepository(outcome Outcome) string {
	if outcome.SelfUpdate {
		return summaryWorkingDirectoryConstant
	}
	return outcome.Repository
}

func describeDetail(outcome Outcome) string {
	if outcome.Error != nil {
		return outcome.Error.Error()
	}
	if len(outcome.Branch) > 0 {
		return fmt.Sprintf(summaryBranchTemplateConstant, outcome.Branch)
	}
	return ""
}
