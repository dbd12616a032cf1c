package cli

import (
	"fmt"

	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/countries"
	"sndcds/uranus-tools/internal/logging"

	"github.com/spf13/cobra"
)

// NewCountriesCommand creates the countries-csv-to-sql command.
func NewCountriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "countries-csv-to-sql <inputfile.csv>",
		Short: "Convert a countries CSV into an INSERT statement",
		Long: `Reads a CSV with the columns "Alpha-3 Code", "Name (English)",
"Name (German)" and "Name (Danish)" and writes one INSERT INTO countries
statement to a .sql file next to the input.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &UsageError{Usage: constants.MsgCountriesUsage}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogging(""); err != nil {
				return err
			}
			defer logging.Close()

			result, err := countries.Convert(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Written {
				fmt.Fprintln(out, constants.MsgCountriesNoRows)
				return nil
			}
			fmt.Fprintf(out, constants.MsgCountriesWritten+"\n", result.OutputPath)
			return nil
		},
	}
}
