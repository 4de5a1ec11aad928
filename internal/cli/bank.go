package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/quiz"
)

func newBankCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect and validate question banks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [bank.yaml]",
		Short: "Check a question bank for structural problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.bankPath = args[0]
			}
			s := opts.styles(cmd)
			out := cmd.OutOrStdout()

			bank, err := opts.loadBank()
			if err == nil {
				err = bank.Validate()
			}
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
					renderProblems(out, s, appErr.Fields)
				}
				return err
			}

			fmt.Fprintf(out, "%s %d axes, %d questions\n", s.Good.Render("OK:"), len(bank.AxisOrder()), bank.Len())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the axes and questions of the active bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := opts.loadBank()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.format == FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bank)
			}
			renderBank(out, opts.styles(cmd), bank)
			return nil
		},
	})

	return cmd
}

func renderProblems(w io.Writer, s *Styles, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%s %s: %s\n", s.Bad.Render("ERROR:"), k, fields[k])
	}
}

func renderBank(w io.Writer, s *Styles, bank *quiz.Bank) {
	if bank.Title != "" {
		fmt.Fprintln(w, s.Header.Render(bank.Title))
	}

	for _, letter := range bank.AxisOrder() {
		def, _ := bank.Axis(letter)
		fmt.Fprintf(w, "\n%s %s  %s\n", s.Code.Render(letter), s.Header.Render(def.Name),
			s.Muted.Render(fmt.Sprintf("high %s / low %s / neutral %s, %d items", def.High, def.Low, def.NeutralSymbol(), bank.ItemCount(letter))))

		for _, q := range bank.Questions {
			if q.Axis != letter {
				continue
			}
			marker := " "
			if q.IsReverse {
				marker = "R"
			}
			fmt.Fprintf(w, "  %3d %s %s\n", q.ID, s.Muted.Render(marker), strings.TrimSpace(q.Text))
		}
	}
}
