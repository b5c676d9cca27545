package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available motions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cfg.Motions.Dir, cfg.Motions.StabilizedTolerance)
		if err != nil {
			return err
		}
		infos := lib.infos()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				info.Name,
				info.Mode,
				strconv.Itoa(info.Frames),
				formatSeconds(info.DurationSec),
				info.Source,
				info.Description,
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"NAME", "MODE", "FRAMES", "DURATION", "SOURCE", "DESCRIPTION"}, rows)
	},
}
