package autocrat

import (
	"context"
	"fmt"

	futarchy "github.com/LukasDeco/meta-dao-frontend"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-errors/errors"
)

type ProposalState uint8

const (
	ProposalStatePending  ProposalState = 0
	ProposalStatePassed   ProposalState = 1
	ProposalStateFailed   ProposalState = 2
	ProposalStateExecuted ProposalState = 3
)

func (s ProposalState) String() string {
	switch s {
	case ProposalStatePending:
		return "pending"
	case ProposalStatePassed:
		return "passed"
	case ProposalStateFailed:
		return "failed"
	case ProposalStateExecuted:
		return "executed"
	}
	return "unknown"
}

// ProposalAccount is the decoded proposal layout. Each proposal owns a
// pair of conditional markets; all market state in this module is
// scoped to exactly one proposal at a time.
type ProposalAccount struct {
	Number                 uint32
	Proposer               solana.PublicKey
	DescriptionUrl         string
	SlotEnqueued           uint64
	State                  ProposalState
	OpenbookPassMarket     solana.PublicKey
	OpenbookFailMarket     solana.PublicKey
	OpenbookTwapPassMarket solana.PublicKey
	OpenbookTwapFailMarket solana.PublicKey
	BaseVault              solana.PublicKey
	QuoteVault             solana.PublicKey
}

type Proposal struct {
	Address solana.PublicKey
	Data    *ProposalAccount
}

func (p *Proposal) Reload(buffer []byte) *Proposal {
	if len(buffer) <= 8 {
		fmt.Println("Proposal reload failed: pubkey=", p.Address.String(), ",len=", len(buffer))
		return p
	}
	var account ProposalAccount
	if err := bin.NewBorshDecoder(buffer[8:]).Decode(&account); err != nil {
		fmt.Println("Proposal reload failed: pubkey=", p.Address.String(), ",err=", err)
		return p
	}
	p.Data = &account
	return p
}

func LoadProposalFromBuffer(address solana.PublicKey, buffer []byte) *Proposal {
	proposal := &Proposal{Address: address}
	proposal.Reload(buffer)
	return proposal
}

func LoadProposalFromAddress(
	ctx context.Context,
	connection *rpc.Client,
	address solana.PublicKey,
) (*Proposal, error) {
	accountInfo, err := connection.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	proposal := LoadProposalFromBuffer(address, accountInfo.GetBinary())
	if proposal.Data == nil {
		return nil, errors.Errorf("proposal account %s did not decode", address.String())
	}
	return proposal, nil
}

// FetchProposals scans the autocrat program for proposal accounts.
func FetchProposals(
	ctx context.Context,
	connection *rpc.Client,
	programId solana.PublicKey,
) ([]*Proposal, error) {
	out, err := connection.GetProgramAccountsWithOpts(
		ctx,
		programId,
		&rpc.GetProgramAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Filters:    []rpc.RPCFilter{futarchy.GetProposalFilter()},
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	var proposals []*Proposal
	for _, keyedAccount := range out {
		proposal := LoadProposalFromBuffer(keyedAccount.Pubkey, keyedAccount.Account.Data.GetBinary())
		if proposal.Data == nil {
			continue
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}
