package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gosheet/app"
	"gosheet/internal/config"
	"gosheet/internal/document"
	"gosheet/internal/tablediff"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosheet",
		Short: "gosheet CLI for converting, querying and serving tables",
	}

	rootCmd.AddCommand(
		newConvertCmd(),
		newQueryCmd(),
		newSummaryCmd(),
		newDiffCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a table between xlsx, xml, json and csv",
		Long: `Decode the input by its extension and encode it by the output's extension.

Example: gosheet convert budget.xlsx budget.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.ConvertFile(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows x %d columns)\n", args[1], t.Rows(), t.Width())
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var req document.QueryRequest
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query [file]",
		Short: "Run a lookup or aggregation over a table file",
		Long: `Build the name/value mapping from the name column and an item of the header row,
then report on it.

Operations: items, names, values, max, min, average, rule

Example: gosheet query sales.xlsx --item-row 1 --name-col A --item Q1 --op rule --rule "x > 10 # x * 2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.QueryFile(args[0], req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			for _, line := range res.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&req.ItemRow, "item-row", 1, "1-based row holding the item labels")
	cmd.Flags().StringVar(&req.NameColumn, "name-col", "A", "Column holding the row names (letters or 1-based number)")
	cmd.Flags().StringVar(&req.Item, "item", "", "Item label whose column supplies the values")
	cmd.Flags().StringVar(&req.Op, "op", document.OpMax, "Operation to run")
	cmd.Flags().StringVar(&req.Rule, "rule", "", "Rule \"<condition>[#<transform>]\" over x, for --op rule")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var rowsFlag string

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Summarize the numbers found in selected rows",
		Long: `Parse every cell of the selected rows and report count, max, min, average and sum.

Example: gosheet summary sales.csv --rows 2,3,4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(rowsFlag)
			if err != nil {
				return err
			}
			summary, ok, err := app.SummarizeFile(args[0], rows)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No numbers found in the selected rows")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&rowsFlag, "rows", "", "Comma-separated 1-based row numbers")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

// parseRows turns "1,2,5" into 0-based indices
func parseRows(s string) ([]int, error) {
	var rows []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid row number %q", part)
		}
		rows = append(rows, n-1)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows selected")
	}
	return rows, nil
}

func newDiffCmd() *cobra.Command {
	var statOnly bool

	cmd := &cobra.Command{
		Use:   "diff [before] [after]",
		Short: "Compare the rows of two table files",
		Long: `Decode both files, trim trailing empty rows and columns, and print a row diff.
Files may be in different formats.

Example: gosheet diff budget.xlsx budget-edited.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := app.DiffFiles(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !statOnly {
				fmt.Fprint(out, tablediff.Format(lines))
			}
			stats := tablediff.Summarize(lines)
			fmt.Fprintf(out, "%d rows added, %d rows removed, %d unchanged\n", stats.Added, stats.Removed, stats.Unchanged)
			return nil
		},
	}

	cmd.Flags().BoolVar(&statOnly, "stat", false, "Print only the counts")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Start the API server. Configuration is read from the environment and an
optional .env file (PORT, DATABASE_URL, LLM_API_KEY, LLM_MODEL, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using system environment variables")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, cfg)
		},
	}
}
