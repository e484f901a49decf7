package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/output"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	echoNetwork string
	echoAddr    string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var echoCmd = &cobra.Command{
	Use:   "echo <text>",
	Short: "Send ECHO to a running \"sskr serve\" instance as a liveness check",
	Long: `echo dials a running serve instance, sends the given text as the
ECHO opcode's payload, and prints whatever comes back, without touching
the dispatcher's engine session state.`,
	Args: cobra.ExactArgs(1),
	RunE: runEcho,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	echoCmd.Flags().StringVar(&echoNetwork, "network", "tcp", `dial network: "tcp" or "unix"`)
	echoCmd.Flags().StringVar(&echoAddr, "addr", "127.0.0.1:7655", "serve instance address (or socket path for --network unix)")
	rootCmd.AddCommand(echoCmd)
}

func runEcho(cmd *cobra.Command, args []string) error {
	payload := hex.EncodeToString([]byte(args[0]))
	resp, err := dialAndExchange(echoNetwork, echoAddr, wireRequest{Op: "ECHO", PayloadHex: payload})
	if err != nil {
		return err
	}
	if !resp.OK {
		return sskrerr.Wrap(sskrerr.ErrGeneral, "%s", resp.Error)
	}

	echoed, derr := hex.DecodeString(resp.PayloadHex)
	if derr != nil {
		return sskrerr.Wrap(derr, "decoding echoed payload")
	}

	if currentFormat() == output.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"payload": string(echoed)})
	}
	outln(cmd.OutOrStdout(), string(echoed))
	return nil
}
