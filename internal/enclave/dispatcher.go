// Package enclave plays the role of the "enclosing handler" around the
// SSKR core: it dispatches the four named opcodes to a single
// long-lived engine, the way a secure-element command loop would,
// without owning any of the cryptography itself.
package enclave

import (
	"sync"

	"github.com/mrz1836/sskr/internal/corerr"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/sskr"
)

// Opcode names one of the four commands a dispatcher accepts.
type Opcode string

const (
	OpGenerateShares Opcode = "GENERATE_SHARES"
	OpCombineShares  Opcode = "COMBINE_SHARES"
	OpReset          Opcode = "RESET"
	OpEcho           Opcode = "ECHO"
)

// GenerateRequest is the payload for OpGenerateShares.
type GenerateRequest struct {
	Policy sskr.Policy
	Secret []byte
}

// GenerateResponse is the result of a successful OpGenerateShares call.
type GenerateResponse struct {
	Shares []sskr.Share
}

// CombineRequest is the payload for OpCombineShares.
type CombineRequest struct {
	Shares []sskr.Share
}

// CombineResponse is the result of an OpCombineShares call. Completed
// is false when more shares are required before the secret can be
// recovered.
type CombineResponse struct {
	Completed bool
	Secret    []byte
}

// EchoResponse is the result of an OpEcho call, used to verify the
// dispatcher is alive without touching the engine's session state.
type EchoResponse struct {
	Payload []byte
}

// Dispatcher serializes all opcode dispatch through a single
// mutex-held sskr.Engine, preserving the "no concurrent entries to any
// core operation" guarantee even when a host accepts concurrent client
// connections.
type Dispatcher struct {
	mu     sync.Mutex
	engine *sskr.Engine
}

// NewDispatcher constructs a Dispatcher with a fresh engine built over
// the given random source and MAC.
func NewDispatcher(rng randsrc.Source, mac digest.MAC) *Dispatcher {
	return &Dispatcher{engine: sskr.NewEngine(rng, mac)}
}

const opDispatch = "enclave.Dispatcher"

// GenerateShares dispatches OpGenerateShares.
func (d *Dispatcher) GenerateShares(req GenerateRequest) (GenerateResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	shares, err := d.engine.GenerateShares(req.Policy, req.Secret)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{Shares: shares}, nil
}

// CombineShares dispatches OpCombineShares.
func (d *Dispatcher) CombineShares(req CombineRequest) (CombineResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	secret, n, err := d.engine.CombineShares(req.Shares)
	if err != nil {
		return CombineResponse{}, err
	}
	return CombineResponse{Completed: n > 0, Secret: secret}, nil
}

// Reset dispatches OpReset, dropping the engine's accumulator session.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.Reset()
}

// Echo dispatches OpEcho: a liveness check that never touches engine
// session state.
func (d *Dispatcher) Echo(payload []byte) EchoResponse {
	return EchoResponse{Payload: payload}
}

// Dispatch routes a generic opcode call by name, for transports (e.g. a
// line-oriented server) that carry the opcode as a string rather than
// calling the typed methods directly.
func (d *Dispatcher) Dispatch(op Opcode, req any) (any, error) {
	switch op {
	case OpGenerateShares:
		gr, ok := req.(GenerateRequest)
		if !ok {
			return nil, corerr.New(corerr.IllegalUse, opDispatch, "GENERATE_SHARES requires a GenerateRequest")
		}
		return d.GenerateShares(gr)
	case OpCombineShares:
		cr, ok := req.(CombineRequest)
		if !ok {
			return nil, corerr.New(corerr.IllegalUse, opDispatch, "COMBINE_SHARES requires a CombineRequest")
		}
		return d.CombineShares(cr)
	case OpReset:
		d.Reset()
		return nil, nil
	case OpEcho:
		payload, _ := req.([]byte)
		return d.Echo(payload), nil
	default:
		return nil, corerr.New(corerr.IllegalUse, opDispatch, "unknown opcode "+string(op))
	}
}
