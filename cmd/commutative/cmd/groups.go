package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bastionzero/commutative"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(groupsCmd)
}

// groupsCmd represents the groups command
var groupsCmd = &cobra.Command{
	Use:           "groups",
	Short:         "List the well-known groups",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.DiscardEmptyColumns)
		fmt.Fprintf(w, "[ groups ] %s\n", strings.Repeat("-", 30))
		for _, name := range commutative.GroupNames() {
			m, err := commutative.LookupGroup(name)
			if err != nil {
				return err
			}
			def := ""
			if name == commutative.DefaultGroupName {
				def = "(default)"
			}
			fmt.Fprintf(w, "%s\t%d bits\t%s\n", name, m.BitLen(), def)
		}
		return w.Flush()
	},
}
