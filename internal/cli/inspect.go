package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/egemengol/subtitles/internal/webvtt"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [vtt_file]",
	Short: "Print the cues of a WebVTT file",
	Long: `Parse a WebVTT file and print its cues.

On a terminal the cues are shown as a table. When the output is piped,
one tab-separated line is printed per cue. --json prints the parsed
document instead.

Examples:
  subtitles inspect movie.vtt
  subtitles inspect movie.vtt --json
  subtitles inspect movie.vtt --stop-at-malformed | cut -f 3,4`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("json", false, "Print the parsed document as JSON")
	addParseFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	file, err := openSubtitle(args[0], parseOptions(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(file.Document())
	}

	headers, rows := cueRows(file.Document())
	if isTerminal(out) {
		_, err = fmt.Fprintln(out, renderTable(
			headers,
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return err
	}
	_, err = fmt.Fprint(out, renderTSV(headers, rows))
	return err
}

func cueRows(doc *webvtt.Document) ([]string, [][]string) {
	headers := []string{"#", "ID", "START", "END", "DURATION", "TEXT"}
	rows := make([][]string, 0, len(doc.Cues))
	for i, cue := range doc.Cues {
		rows = append(rows, []string{
			strconv.Itoa(i),
			cue.ID(),
			cue.Start.String(),
			cue.End.String(),
			cue.Duration().String(),
			cue.Text,
		})
	}
	return headers, rows
}
