// Package cli implements quizctl, the offline companion to the quiz server.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
)

// Output formats
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

type options struct {
	bankPath string
	format   string
	json     bool
	noColor  bool
}

// NewRootCmd builds the quizctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "quizctl",
		Short: "Score answer sets and manage question banks offline",
		Long: `quizctl runs the travel type scoring engine without the server.

It scores answer files, checks question bank YAML before it is deployed
and produces bcrypt hashes for the admin login.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.json {
				opts.format = FormatJSON
			}
			switch opts.format {
			case FormatTerminal, FormatJSON:
				return nil
			default:
				return fmt.Errorf("unknown format %q (want terminal or json)", opts.format)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.bankPath, "bank", "b", "", "Question bank YAML (defaults to the built-in bank)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", FormatTerminal, "Output format (terminal, json)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Shorthand for --format json")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newScoreCmd(opts))
	root.AddCommand(newBankCmd(opts))
	root.AddCommand(newHashPasswordCmd())

	return root
}

// Execute runs quizctl with the process arguments
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) loadBank() (*quiz.Bank, error) {
	if o.bankPath == "" {
		return quiz.DefaultBank(), nil
	}
	return quiz.LoadBank(o.bankPath)
}

func (o *options) styles(cmd *cobra.Command) *Styles {
	return NewStyles(!o.noColor && isTerminal(cmd.OutOrStdout()))
}
