package accounts

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LukasDeco/meta-dao-frontend/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type AccountToLoad struct {
	PublicKey solana.PublicKey
	Callbacks map[string]func([]byte, uint64)
}

const GET_MULTIPLE_ACCOUNTS_CHUNK_SIZE = 99

// BulkAccountLoader polls a registered account set with batched
// GetMultipleAccounts calls, dispatching callbacks only when an
// account's buffer actually changed and its slot moved forward.
type BulkAccountLoader struct {
	connection       *rpc.Client
	commitment       rpc.CommitmentType
	pollingFrequency time.Duration
	accountsToLoad   map[string]*AccountToLoad
	bufferAndSlotMap map[string]*BufferAndSlot
	errorCallbacks   map[string]func(error)
	mostRecentSlot   uint64
	callbackSeq      atomic.Uint64
	cancelPolling    func()
	mxState          *sync.RWMutex
}

func CreateBulkAccountLoader(
	connection *rpc.Client,
	commitment rpc.CommitmentType,
	pollingFrequency time.Duration,
) *BulkAccountLoader {
	return &BulkAccountLoader{
		connection:       connection,
		commitment:       commitment,
		pollingFrequency: pollingFrequency,
		accountsToLoad:   make(map[string]*AccountToLoad),
		bufferAndSlotMap: make(map[string]*BufferAndSlot),
		errorCallbacks:   make(map[string]func(error)),
		mxState:          new(sync.RWMutex),
	}
}

func (p *BulkAccountLoader) nextCallbackId() string {
	return fmt.Sprintf("load-%d", p.callbackSeq.Add(1))
}

func (p *BulkAccountLoader) AddAccount(
	publicKey solana.PublicKey,
	callback func([]byte, uint64),
) string {
	if publicKey.IsZero() {
		fmt.Println("Caught adding blank publickey to bulkAccountLoader")
	}

	defer p.mxState.Unlock()
	p.mxState.Lock()
	existingSize := len(p.accountsToLoad)

	callbackId := p.nextCallbackId()
	existingAccountToLoad, exists := p.accountsToLoad[publicKey.String()]
	if exists {
		existingAccountToLoad.Callbacks[callbackId] = callback
	} else {
		p.accountsToLoad[publicKey.String()] = &AccountToLoad{
			PublicKey: publicKey,
			Callbacks: map[string]func([]byte, uint64){
				callbackId: callback,
			},
		}
	}

	if existingSize == 0 {
		p.StartPolling()
	}

	return callbackId
}

func (p *BulkAccountLoader) RemoveAccount(
	publicKey solana.PublicKey,
	callbackId string,
) {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	existingAccountToLoad, exists := p.accountsToLoad[publicKey.String()]
	if exists {
		delete(existingAccountToLoad.Callbacks, callbackId)
		if len(existingAccountToLoad.Callbacks) == 0 {
			delete(p.bufferAndSlotMap, publicKey.String())
			delete(p.accountsToLoad, existingAccountToLoad.PublicKey.String())
		}
	}

	if len(p.accountsToLoad) == 0 {
		p.StopPolling()
	}
}

func (p *BulkAccountLoader) AddErrorCallbacks(callback func(error)) string {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	callbackId := p.nextCallbackId()
	p.errorCallbacks[callbackId] = callback
	return callbackId
}

func (p *BulkAccountLoader) RemoveErrorCallbacks(callbackId string) {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	delete(p.errorCallbacks, callbackId)
}

func (p *BulkAccountLoader) Load() {
	p.mxState.RLock()
	accountsToLoad := utils.MapValues(p.accountsToLoad)
	p.mxState.RUnlock()
	for _, chunk := range utils.Chunks(accountsToLoad, GET_MULTIPLE_ACCOUNTS_CHUNK_SIZE) {
		p.LoadChunk(chunk)
	}
}

func (p *BulkAccountLoader) LoadChunk(accountsToLoadChunk []*AccountToLoad) {
	if len(accountsToLoadChunk) == 0 {
		return
	}
	var keys []solana.PublicKey
	for _, accountToLoad := range accountsToLoadChunk {
		keys = append(keys, accountToLoad.PublicKey)
	}
	rpcResponse, err := p.connection.GetMultipleAccountsWithOpts(
		context.TODO(),
		keys,
		&rpc.GetMultipleAccountsOpts{
			Encoding:   solana.EncodingBase64Zstd,
			Commitment: p.commitment,
		},
	)
	if err != nil {
		p.handleErrorCallbacks(err)
		return
	}
	newSlot := rpcResponse.Context.Slot

	if newSlot > p.mostRecentSlot {
		p.mostRecentSlot = newSlot
	}
	utils.ForEach(accountsToLoadChunk, func(accountToLoad *AccountToLoad, j int) {
		if len(accountToLoad.Callbacks) == 0 {
			return
		}

		key := accountToLoad.PublicKey.String()
		oldRPCResponse, exists := p.bufferAndSlotMap[key]
		if exists && oldRPCResponse != nil && newSlot < oldRPCResponse.Slot {
			return
		}

		var newBuffer []byte
		if len(rpcResponse.Value) > j && rpcResponse.Value[j] != nil {
			newBuffer = rpcResponse.Value[j].Data.GetBinary()
		}

		if oldRPCResponse == nil {
			p.bufferAndSlotMap[key] = &BufferAndSlot{
				Buffer: newBuffer,
				Slot:   newSlot,
			}
			p.HandleAccountCallbacks(accountToLoad, newBuffer, newSlot)
			return
		}

		oldBuffer := oldRPCResponse.Buffer
		if newBuffer != nil && (oldBuffer == nil || !bytes.Equal(newBuffer, oldBuffer)) {
			p.bufferAndSlotMap[key] = &BufferAndSlot{
				Buffer: newBuffer,
				Slot:   newSlot,
			}
			p.HandleAccountCallbacks(accountToLoad, newBuffer, newSlot)
		}
	})
}

func (p *BulkAccountLoader) HandleAccountCallbacks(
	accountToLoad *AccountToLoad,
	buffer []byte,
	slot uint64,
) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("Bulk account load: error in account callback")
			fmt.Printf("account to load %s", accountToLoad.PublicKey.String())
		}
	}()
	for _, callback := range accountToLoad.Callbacks {
		callback(buffer, slot)
	}
}

func (p *BulkAccountLoader) handleErrorCallbacks(err error) {
	p.mxState.RLock()
	callbacks := utils.MapValues(p.errorCallbacks)
	p.mxState.RUnlock()
	for _, callback := range callbacks {
		callback(err)
	}
}

func (p *BulkAccountLoader) GetBufferAndSlot(publickey solana.PublicKey) *BufferAndSlot {
	data, exists := p.bufferAndSlotMap[publickey.String()]
	if !exists {
		return nil
	}
	return data
}

func (p *BulkAccountLoader) GetSlot() uint64 {
	return p.mostRecentSlot
}

func (p *BulkAccountLoader) StartPolling() {
	if p.cancelPolling != nil {
		return
	}
	if p.pollingFrequency > 0 {
		ticker := time.NewTicker(p.pollingFrequency)
		ctx, cancel := context.WithCancel(context.Background())
		p.cancelPolling = cancel
		go func(ctx context.Context) {
			for {
				select {
				case <-ticker.C:
					p.Load()
				case <-ctx.Done():
					ticker.Stop()
					return
				}
			}
		}(ctx)
	}
}

func (p *BulkAccountLoader) StopPolling() {
	if p.cancelPolling != nil {
		p.cancelPolling()
		p.cancelPolling = nil
	}
}

func (p *BulkAccountLoader) UpdatePollingFrequency(pollingFrequency time.Duration) {
	p.StopPolling()
	p.pollingFrequency = pollingFrequency
	if len(p.accountsToLoad) > 0 {
		p.StartPolling()
	}
}
