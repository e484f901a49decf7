package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"net"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/config"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/enclave"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/sskr"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	serveNetwork string
	serveAddr    string
)

// wireRequest is one line of the serve protocol: an opcode name plus
// whichever of the optional fields that opcode needs.
type wireRequest struct {
	Op         string       `json:"op"`
	Policy     *sskr.Policy `json:"policy,omitempty"`
	SecretHex  string       `json:"secret_hex,omitempty"`
	Shares     []string     `json:"shares,omitempty"` // sskr1... texts
	PayloadHex string       `json:"payload_hex,omitempty"`
}

// wireResponse is one line of the serve protocol's reply.
type wireResponse struct {
	OK         bool     `json:"ok"`
	Error      string   `json:"error,omitempty"`
	Shares     []string `json:"shares,omitempty"`
	Completed  bool     `json:"completed,omitempty"`
	SecretHex  string   `json:"secret_hex,omitempty"`
	PayloadHex string   `json:"payload_hex,omitempty"`
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local, rate-limited SSKR dispatch server",
	Long: `serve starts a line-oriented JSON server fronting a single,
mutex-held sskr.Engine through internal/enclave.Dispatcher, preserving
the "no concurrent entries to any core operation" guarantee across
concurrent client connections. Each client (keyed by remote address) is
throttled by a token-bucket rate limiter before its opcode reaches the
dispatcher.

Each connection is a sequence of newline-delimited JSON requests and
responses:
  {"op":"GENERATE_SHARES","policy":{...},"secret_hex":"..."}
  {"op":"COMBINE_SHARES","shares":["sskr1...","sskr1..."]}
  {"op":"RESET"}
  {"op":"ECHO","payload_hex":"..."}`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	serveCmd.Flags().StringVar(&serveNetwork, "network", "tcp", `listener network: "tcp" or "unix"`)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:7655", "address to listen on (or socket path for --network unix)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := Config()
	if c == nil {
		c = config.Defaults()
	}

	dispatcher := enclave.NewDispatcher(randsrc.CryptoSource{}, digest.HMACSHA256{})
	limiter := enclave.NewClientLimiter(float64(c.Server.RateLimitPerSecond), c.Server.RateLimitBurst)

	ln, err := net.Listen(serveNetwork, serveAddr)
	if err != nil {
		return sskrerr.Wrap(err, "listening on %s %s", serveNetwork, serveAddr)
	}
	defer ln.Close()

	outln(cmd.OutOrStdout(), "listening on "+serveNetwork+" "+serveAddr)

	for {
		conn, aerr := ln.Accept()
		if aerr != nil {
			return sskrerr.Wrap(aerr, "accepting connection")
		}
		go serveConn(cmd.Context(), conn, dispatcher, limiter)
	}
}

func serveConn(ctx context.Context, conn net.Conn, d *enclave.Dispatcher, limiter *enclave.ClientLimiter) {
	defer conn.Close()

	client := conn.RemoteAddr().String()
	scanner := bufio.NewScanner(conn)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		if waitErr := limiter.Wait(ctx, client); waitErr != nil {
			_ = enc.Encode(wireResponse{Error: waitErr.Error()})
			return
		}

		var req wireRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = enc.Encode(wireResponse{Error: "invalid request: " + err.Error()})
			continue
		}

		resp := handleWireRequest(d, req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func handleWireRequest(d *enclave.Dispatcher, req wireRequest) wireResponse {
	switch enclave.Opcode(req.Op) {
	case enclave.OpGenerateShares:
		return handleGenerateWire(d, req)
	case enclave.OpCombineShares:
		return handleCombineWire(d, req)
	case enclave.OpReset:
		d.Reset()
		return wireResponse{OK: true}
	case enclave.OpEcho:
		payload, _ := hex.DecodeString(req.PayloadHex)
		resp := d.Echo(payload)
		return wireResponse{OK: true, PayloadHex: hex.EncodeToString(resp.Payload)}
	default:
		return wireResponse{Error: "unknown opcode " + req.Op}
	}
}

func handleGenerateWire(d *enclave.Dispatcher, req wireRequest) wireResponse {
	if req.Policy == nil {
		return wireResponse{Error: "GENERATE_SHARES requires a policy"}
	}
	secret, err := hex.DecodeString(req.SecretHex)
	if err != nil {
		return wireResponse{Error: "invalid secret_hex: " + err.Error()}
	}

	genResp, err := d.GenerateShares(enclave.GenerateRequest{Policy: *req.Policy, Secret: secret})
	if err != nil {
		return wireResponse{Error: err.Error()}
	}

	texts := make([]string, 0, len(genResp.Shares))
	for _, s := range genResp.Shares {
		text, terr := sskr.EncodeText(s)
		if terr != nil {
			return wireResponse{Error: terr.Error()}
		}
		texts = append(texts, text)
	}
	return wireResponse{OK: true, Shares: texts}
}

func handleCombineWire(d *enclave.Dispatcher, req wireRequest) wireResponse {
	shares := make([]sskr.Share, 0, len(req.Shares))
	for _, t := range req.Shares {
		s, err := sskr.DecodeText(t)
		if err != nil {
			return wireResponse{Error: err.Error()}
		}
		shares = append(shares, s)
	}

	combResp, err := d.CombineShares(enclave.CombineRequest{Shares: shares})
	if err != nil {
		return wireResponse{Error: err.Error()}
	}
	return wireResponse{OK: true, Completed: combResp.Completed, SecretHex: hex.EncodeToString(combResp.Secret)}
}
