package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/enclave"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/sskr"
)

func startTestServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	dispatcher := enclave.NewDispatcher(randsrc.CryptoSource{}, digest.HMACSHA256{})
	limiter := enclave.NewClientLimiter(1000, 1000)

	go func() {
		for {
			conn, aerr := ln.Accept()
			if aerr != nil {
				return
			}
			go serveConn(context.Background(), conn, dispatcher, limiter)
		}
	}()

	return ln.Addr().String()
}

func exchangeOnce(t *testing.T, addr string, req wireRequest) wireResponse {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, json.NewEncoder(conn).Encode(req))

	scanner := bufio.NewScanner(conn)
	require.True(t, scanner.Scan())

	var resp wireResponse
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	return resp
}

func TestServe_EchoRoundTrip(t *testing.T) {
	addr := startTestServer(t)

	resp := exchangeOnce(t, addr, wireRequest{Op: "ECHO", PayloadHex: hex.EncodeToString([]byte("ping"))})
	require.True(t, resp.OK)

	decoded, err := hex.DecodeString(resp.PayloadHex)
	require.NoError(t, err)
	require.Equal(t, "ping", string(decoded))
}

func TestServe_ResetSucceeds(t *testing.T) {
	addr := startTestServer(t)

	resp := exchangeOnce(t, addr, wireRequest{Op: "RESET"})
	require.True(t, resp.OK)
}

func TestServe_GenerateThenCombineRoundTrip(t *testing.T) {
	addr := startTestServer(t)

	policy := &sskr.Policy{
		GroupThreshold: 1,
		Groups:         []sskr.GroupSpec{{Threshold: 2, Count: 3}},
	}

	genResp := exchangeOnce(t, addr, wireRequest{
		Op:        "GENERATE_SHARES",
		Policy:    policy,
		SecretHex: hex.EncodeToString([]byte("0123456789ABCDEF")),
	})
	require.True(t, genResp.OK)
	require.Len(t, genResp.Shares, 3)

	combResp := exchangeOnce(t, addr, wireRequest{
		Op:     "COMBINE_SHARES",
		Shares: genResp.Shares[:2],
	})
	require.True(t, combResp.OK)
	require.True(t, combResp.Completed)

	secret, err := hex.DecodeString(combResp.SecretHex)
	require.NoError(t, err)
	require.Equal(t, "0123456789ABCDEF", string(secret))
}

func TestServe_UnknownOpcode(t *testing.T) {
	addr := startTestServer(t)

	resp := exchangeOnce(t, addr, wireRequest{Op: "NOPE"})
	require.False(t, resp.OK)
	require.NotEmpty(t, resp.Error)
}
