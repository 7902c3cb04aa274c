package autocrat

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalBuffer(t *testing.T, account ProposalAccount) []byte {
	body := new(bytes.Buffer)
	require.NoError(t, bin.NewBorshEncoder(body).Encode(account))
	return append(make([]byte, 8), body.Bytes()...)
}

func TestProposalReload(t *testing.T) {
	passMarket := solana.NewWallet().PublicKey()
	failMarket := solana.NewWallet().PublicKey()
	account := ProposalAccount{
		Number:             7,
		Proposer:           solana.NewWallet().PublicKey(),
		DescriptionUrl:     "https://example.com/proposal/7",
		SlotEnqueued:       123456,
		State:              ProposalStatePending,
		OpenbookPassMarket: passMarket,
		OpenbookFailMarket: failMarket,
	}

	proposal := LoadProposalFromBuffer(solana.NewWallet().PublicKey(), proposalBuffer(t, account))
	require.NotNil(t, proposal.Data)
	spew.Dump("TestProposalReload Result", proposal.Data)

	assert.Equal(t, uint32(7), proposal.Data.Number)
	assert.Equal(t, passMarket, proposal.Data.OpenbookPassMarket)
	assert.Equal(t, failMarket, proposal.Data.OpenbookFailMarket)
	assert.Equal(t, "pending", proposal.Data.State.String())
}

func TestProposalReloadKeepsPriorStateOnBadBuffer(t *testing.T) {
	account := ProposalAccount{Number: 9, DescriptionUrl: "u"}
	proposal := LoadProposalFromBuffer(solana.NewWallet().PublicKey(), proposalBuffer(t, account))
	require.NotNil(t, proposal.Data)

	proposal.Reload([]byte{1, 2, 3})
	require.NotNil(t, proposal.Data)
	assert.Equal(t, uint32(9), proposal.Data.Number)
}

func TestProposalStateString(t *testing.T) {
	assert.Equal(t, "passed", ProposalStatePassed.String())
	assert.Equal(t, "failed", ProposalStateFailed.String())
	assert.Equal(t, "executed", ProposalStateExecuted.String())
	assert.Equal(t, "unknown", ProposalState(9).String())
}
