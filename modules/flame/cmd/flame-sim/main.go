package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanet-platform/flame/common/go/xcmd"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flame-sim",
		Short:         "FLAME routing table simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, xcmd.Interrupted{}) {
			return
		}

		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}
