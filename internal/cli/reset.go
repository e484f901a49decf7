package cli

import (
	"bufio"
	"encoding/json"
	"net"

	"github.com/spf13/cobra"

	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	resetNetwork string
	resetAddr    string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Send RESET to a running \"sskr serve\" instance",
	Long: `reset dials a running serve instance and sends the RESET opcode,
dropping its accumulator session's state so a new combine attempt can
begin. It has no effect on one-shot "combine" invocations, which never
share state across processes.`,
	RunE: runReset,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	resetCmd.Flags().StringVar(&resetNetwork, "network", "tcp", `dial network: "tcp" or "unix"`)
	resetCmd.Flags().StringVar(&resetAddr, "addr", "127.0.0.1:7655", "serve instance address (or socket path for --network unix)")
	rootCmd.AddCommand(resetCmd)
}

func dialAndExchange(network, addr string, req wireRequest) (wireResponse, error) {
	conn, err := net.Dial(network, addr)
	if err != nil {
		return wireResponse{}, sskrerr.Wrap(err, "dialing %s %s", network, addr)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return wireResponse{}, sskrerr.Wrap(err, "sending request")
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if serr := scanner.Err(); serr != nil {
			return wireResponse{}, sskrerr.Wrap(serr, "reading response")
		}
		return wireResponse{}, sskrerr.Wrap(sskrerr.ErrGeneral, "connection closed before a response arrived")
	}

	var resp wireResponse
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return wireResponse{}, sskrerr.Wrap(err, "decoding response")
	}
	return resp, nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	resp, err := dialAndExchange(resetNetwork, resetAddr, wireRequest{Op: "RESET"})
	if err != nil {
		return err
	}
	if !resp.OK {
		return sskrerr.Wrap(sskrerr.ErrGeneral, "%s", resp.Error)
	}
	outln(cmd.OutOrStdout(), "reset")
	return nil
}
