package cmd

import (
	"errors"
	"fmt"
	"os"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronizer/project"
	"github.com/spf13/cobra"
)

var fmtOpts struct {
	write bool
	lf    bool
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtOpts.write, "write", "w", false, "rewrite the file in place")
	fmtCmd.Flags().BoolVar(&fmtOpts.lf, "lf", false, "use bare LF line endings instead of CRLF")
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <project>",
	Short: "Normalize a project file, reporting and dropping malformed lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := project.Load(path)
		var parseErrs project.ParseErrors
		if err != nil && !errors.As(err, &parseErrs) {
			return err
		}
		for _, perr := range parseErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, perr)
		}

		sep := project.CRLF
		if fmtOpts.lf {
			sep = project.LF
		}
		out := project.FormatWith(p, sep)

		if !fmtOpts.write {
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return goerrors.WithStackTrace(err)
		}
		return nil
	},
}
