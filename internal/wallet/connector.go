package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Klingon-tech/coinlock/internal/log"
	"github.com/Klingon-tech/coinlock/internal/suiclient"
	"github.com/Klingon-tech/coinlock/pkg/crypto"
	"github.com/Klingon-tech/coinlock/pkg/tx"
	"github.com/Klingon-tech/coinlock/pkg/types"
)

// ErrNotConnected is returned by a Connector with no key loaded.
var ErrNotConnected = errors.New("wallet not connected")

// ExecutionError is returned when a transaction was executed but its
// effects report failure.
type ExecutionError struct {
	Digest  string
	Message string
}

func (e *ExecutionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("transaction %s failed", e.Digest)
	}
	return fmt.Sprintf("transaction %s failed: %s", e.Digest, e.Message)
}

// Executor submits signed transactions. *suiclient.Client implements it.
type Executor interface {
	ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string) (*suiclient.TransactionResponse, error)
}

// Connector is the wallet connection used by front-ends: it exposes the
// connected address and signs and executes transactions with a local key.
type Connector struct {
	mu     sync.RWMutex
	signer crypto.Keypair
	exec   Executor
}

// NewConnector connects a keypair to an executor.
func NewConnector(kp crypto.Keypair, exec Executor) *Connector {
	return &Connector{signer: kp, exec: exec}
}

// Connected reports whether a key is loaded.
func (c *Connector) Connected() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.signer != nil
}

// Disconnect wipes the key. Later calls fail with ErrNotConnected; a
// signature in progress completes first.
func (c *Connector) Disconnect() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signer != nil {
		c.signer.Zero()
		c.signer = nil
	}
}

// Address returns the connected address.
func (c *Connector) Address() (types.Address, error) {
	if c == nil {
		return types.Address{}, ErrNotConnected
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return types.Address{}, ErrNotConnected
	}
	return c.signer.Address(), nil
}

// sign signs td with the loaded key.
func (c *Connector) sign(td *tx.TransactionData) (string, error) {
	if c == nil {
		return "", ErrNotConnected
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return "", ErrNotConnected
	}
	if td.Sender != c.signer.Address() {
		return "", fmt.Errorf("transaction sender %s is not the connected account %s", td.Sender, c.signer.Address())
	}
	return crypto.SignTransaction(c.signer, td.Bytes())
}

// SignAndExecute signs td and submits it, waiting for local execution.
// A failed effects status is returned as *ExecutionError together with the
// response.
func (c *Connector) SignAndExecute(ctx context.Context, td *tx.TransactionData) (*suiclient.TransactionResponse, error) {
	sig, err := c.sign(td)
	if err != nil {
		return nil, err
	}
	txBytes := td.Bytes()

	logger := log.Wallet.With().Str("digest", td.Digest().String()).Logger()
	logger.Debug().Int("bytes", len(txBytes)).Msg("submitting transaction")

	resp, err := c.exec.ExecuteTransactionBlock(ctx, txBytes, []string{sig})
	if err != nil {
		logger.Warn().Err(err).Msg("execute failed")
		return nil, fmt.Errorf("execute transaction: %w", err)
	}
	if !resp.Success() {
		logger.Warn().Str("status", resp.Status).Str("error", resp.Error).Msg("transaction failed")
		return resp, &ExecutionError{Digest: resp.Digest, Message: resp.Error}
	}
	logger.Info().Uint64("gas", resp.GasUsed.Net()).Msg("transaction executed")
	return resp, nil
}
