package accounts

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// WsAccountSubscriber streams change notifications for a single account
// over the websocket connection. Each notification carries the full new
// account buffer and the slot it was observed at; the owner decides
// whether to apply it.
type WsAccountSubscriber struct {
	wsConnection *ws.Client
	publicKey    solana.PublicKey
	commitment   rpc.CommitmentType

	subscription *ws.AccountSubscription
	subscribed   bool
	cancel       func()
}

func CreateWsAccountSubscriber(
	wsConnection *ws.Client,
	publicKey solana.PublicKey,
	commitment rpc.CommitmentType,
) *WsAccountSubscriber {
	return &WsAccountSubscriber{
		wsConnection: wsConnection,
		publicKey:    publicKey,
		commitment:   commitment,
	}
}

func (p *WsAccountSubscriber) Subscribe(onChange func(buffer []byte, slot uint64)) error {
	if p.subscribed {
		return nil
	}
	subscription, err := p.wsConnection.AccountSubscribeWithOpts(
		p.publicKey,
		p.commitment,
		solana.EncodingBase64Zstd,
	)
	if err != nil {
		return err
	}
	p.subscription = subscription
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go func(ctx context.Context) {
		for {
			received, err := subscription.Recv(ctx)
			if err != nil {
				if ctx.Err() == nil {
					fmt.Println("Account subscription closed: pubkey=", p.publicKey.String(), ",err=", err)
				}
				return
			}
			if received == nil {
				continue
			}
			onChange(received.Value.Data.GetBinary(), received.Context.Slot)
		}
	}(ctx)
	p.subscribed = true
	return nil
}

func (p *WsAccountSubscriber) Subscribed() bool {
	return p.subscribed
}

func (p *WsAccountSubscriber) Unsubscribe() {
	if !p.subscribed {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.subscription != nil {
		p.subscription.Unsubscribe()
		p.subscription = nil
	}
	p.subscribed = false
}
