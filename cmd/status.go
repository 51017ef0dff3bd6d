package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Dashboard: revenue, budgets per status and overdue quotes",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		st, err := a.Stats(ctx)
		if err != nil {
			return err
		}
		f, p, err := a.Format(ctx)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(p.BusinessName))
		fmt.Println()

		if st.Total == 0 && st.CatalogSize == 0 {
			fmt.Println("  Nothing here yet.")
			fmt.Println("  Start with `presu catalog add`, then `presu budget new`.")
			fmt.Println()
			return nil
		}

		overdue := cli.FormatNumber(int64(st.OverduePending))
		if st.OverduePending > 0 {
			overdue = cli.Warn(overdue)
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Rows: [][]string{
				{"Accepted revenue", cli.Money(f.Money(st.AcceptedRevenue))},
				{"---"},
				{"Pending", cli.FormatNumber(int64(st.Pending))},
				{"  overdue", overdue},
				{"Accepted", cli.FormatNumber(int64(st.Accepted))},
				{"Rejected", cli.FormatNumber(int64(st.Rejected))},
				{"Total budgets", cli.FormatNumber(int64(st.Total))},
				{"---"},
				{"Catalog entries", cli.FormatNumber(int64(st.CatalogSize))},
			},
		}))

		if len(st.PendingBudgets) > 0 {
			now := a.Now()
			rows := make([][]string, 0, len(st.PendingBudgets))
			for _, b := range st.PendingBudgets {
				rows = append(rows, []string{b.ID, cli.Truncate(b.Client.Name, 28), f.Money(b.Total), cli.FormatValidity(b.ValidUntil, now)})
			}
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{
				Title:    "Waiting on the client",
				Headers:  []string{"ID", "Client", "Total", "Validity"},
				Rows:     rows,
				LeftCols: []int{1, 3},
			}))
		}
		fmt.Println()
		return nil
	})
}
