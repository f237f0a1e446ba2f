package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/torngate/cmd/torngate/serve"
	userscriptscmder "github.com/papercomputeco/torngate/cmd/torngate/userscripts"
)

const rootLongDesc string = `torngate forwards browser requests to the Torn API.

The gateway injects a server-held API key, relays JSON responses
unchanged and serves a catalog of userscripts.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "torngate",
		Short:         "Torn API gateway",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(userscriptscmder.NewUserscriptsCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
