package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-motion/pkg/joints"
	"github.com/teslashibe/go-motion/pkg/motion"
	"github.com/teslashibe/go-motion/pkg/motionfile"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Check motion files against the schema",
	Long: `Validate motion files: each must match the motion schema and build a
playable motion. Directories are scanned for json and yaml files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		for _, arg := range args {
			found, err := motionPaths(arg)
			if err != nil {
				return err
			}
			paths = append(paths, found...)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no motion files found")
		}

		out := cmd.OutOrStdout()
		var failed int
		for _, path := range paths {
			if err := validateFile(path, cfg.Motions.StabilizedTolerance); err != nil {
				failed++
				fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "ok    %s\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d motion files invalid", failed, len(paths))
		}
		return nil
	},
}

func motionPaths(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		path := filepath.Join(arg, entry.Name())
		if entry.IsDir() {
			continue
		}
		if _, err := motionfile.FormatFromPath(path); err == nil {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func validateFile(path string, tolerance float64) error {
	mf, err := motionfile.FromPath[joints.Joints](path)
	if err != nil {
		return err
	}
	mf.DefaultStabilizedTolerance(tolerance)
	_, err = motion.FromMotionFile(mf)
	return err
}
