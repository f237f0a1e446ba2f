package userscriptscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/pkg/userscript"
)

const userscriptsLongDesc string = `List the userscripts the gateway serves.

Without --dir the built-in catalog is listed. With --dir the scripts are
loaded from that directory exactly as "torngate serve --userscripts-dir"
would load them.

Examples:
  torngate userscripts
  torngate userscripts --dir ./userscripts --json`

const userscriptsShortDesc string = "List userscripts"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	enabledStyle  = cellStyle.Foreground(lipgloss.Color("2"))
	disabledStyle = cellStyle.Foreground(lipgloss.Color("8"))
)

type userscriptsCommander struct {
	dir    string
	asJSON bool
}

func NewUserscriptsCmd() *cobra.Command {
	cmder := &userscriptsCommander{}

	cmd := &cobra.Command{
		Use:   "userscripts",
		Short: userscriptsShortDesc,
		Long:  userscriptsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.dir, "dir", "d", "", "Directory of userscripts to list")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the catalog as JSON")

	return cmd
}

func (c *userscriptsCommander) run(ctx context.Context, cmd *cobra.Command) error {
	var provider userscript.Provider = userscript.NewStaticCatalog()
	if c.dir != "" {
		dirCatalog, err := userscript.NewDirCatalog(c.dir, zap.NewNop())
		if err != nil {
			return fmt.Errorf("could not load userscripts: %w", err)
		}
		provider = dirCatalog
	}

	scripts, err := provider.List(ctx)
	if err != nil {
		return fmt.Errorf("could not list userscripts: %w", err)
	}

	if c.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(scripts)
	}

	if len(scripts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No userscripts found.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(scripts))
	return nil
}

func renderTable(scripts []userscript.Script) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "ENABLED", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(scripts) {
				if scripts[row].Enabled {
					return enabledStyle
				}
				return disabledStyle
			}
			return cellStyle
		})

	for _, s := range scripts {
		enabled := "no"
		if s.Enabled {
			enabled = "yes"
		}
		t.Row(strconv.Itoa(s.ID), s.Name, enabled, s.Description)
	}

	return t.String()
}
