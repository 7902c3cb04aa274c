package priorityFee

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LukasDeco/meta-dao-frontend/utils"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// PriorityFeeSubscriber periodically samples recent prioritization
// fees for the accounts the client write-locks and keeps strategy
// results ready for the transaction sender.
type PriorityFeeSubscriber struct {
	connection            *rpc.Client
	frequencyMs           uint64
	addresses             solana.PublicKeySlice
	customStrategy        IPriorityFeeStrategy
	averageStrategy       *AverageOverSlotsStrategy
	maxStrategy           *MaxOverSlotsStrategy
	priorityFeeMethod     PriorityFeeMethod
	lookbackDistance      uint64
	maxFeeMicroLamports   uint64
	priorityFeeMultiplier float64
	heliusRpcUrl          string

	lastCustomStrategyResult uint64
	lastAvgStrategyResult    uint64
	lastMaxStrategyResult    uint64
	lastSlotSeen             uint64
	mxState                  *sync.RWMutex
	cancel                   func()
}

func CreatePriorityFeeSubscriber(config PriorityFeeSubscriberConfig) *PriorityFeeSubscriber {
	var customStrategy IPriorityFeeStrategy
	if config.CustomStrategy != nil {
		customStrategy = config.CustomStrategy
	} else {
		customStrategy = &AverageOverSlotsStrategy{}
	}
	var slotsToCheck = uint64(50)
	if config.SlotsToCheck > 0 {
		slotsToCheck = config.SlotsToCheck
	}
	frequency := config.FrequencyMs
	if frequency == 0 {
		frequency = 10_000
	}
	subscriber := &PriorityFeeSubscriber{
		connection:            config.Connection,
		frequencyMs:           frequency,
		addresses:             config.Addresses,
		customStrategy:        customStrategy,
		averageStrategy:       &AverageOverSlotsStrategy{},
		maxStrategy:           &MaxOverSlotsStrategy{},
		priorityFeeMethod:     config.PriorityFeeMethod,
		lookbackDistance:      slotsToCheck,
		maxFeeMicroLamports:   config.MaxFeeMicroLamports,
		priorityFeeMultiplier: utils.TT(config.PriorityFeeMultiplier > 0.0, config.PriorityFeeMultiplier, 1.0),
		heliusRpcUrl:          config.HeliusRpcUrl,
		mxState:               new(sync.RWMutex),
	}
	if config.PriorityFeeMethod == PriorityFeeMethodSolana && config.Connection == nil {
		panic("connection must be provided to use the solana priority fee API")
	}
	if config.PriorityFeeMethod == PriorityFeeMethodHelius && config.HeliusRpcUrl == "" {
		panic("heliusRpcUrl must be provided to use the helius priority fee API")
	}
	return subscriber
}

func (p *PriorityFeeSubscriber) Subscribe() {
	if p.cancel != nil {
		return
	}
	p.load()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go func(ctx context.Context) {
		ticker := time.NewTicker(time.Millisecond * time.Duration(p.frequencyMs))
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				p.load()
			}
		}
	}(ctx)
}

func (p *PriorityFeeSubscriber) Unsubscribe() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *PriorityFeeSubscriber) UpdateAddresses(addresses []solana.PublicKey) {
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.addresses = addresses
}

func (p *PriorityFeeSubscriber) load() {
	switch p.priorityFeeMethod {
	case PriorityFeeMethodHelius:
		p.loadFromHelius()
	default:
		p.loadFromSolana()
	}
}

func (p *PriorityFeeSubscriber) loadFromSolana() {
	p.mxState.RLock()
	addresses := p.addresses
	p.mxState.RUnlock()
	samples, err := GetRecentPrioritizationFees(p.connection, context.TODO(), addresses, 0)
	if err != nil {
		fmt.Println("PriorityFeeSubscriber load failed :", err)
		return
	}
	if len(samples) == 0 {
		return
	}
	maxSlot := uint64(0)
	for _, sample := range samples {
		if sample.Slot > maxSlot {
			maxSlot = sample.Slot
		}
	}
	cutoff := uint64(0)
	if maxSlot > p.lookbackDistance {
		cutoff = maxSlot - p.lookbackDistance
	}
	var window []SolanaPriorityFeeResponse
	for _, sample := range samples {
		if sample.Slot >= cutoff {
			window = append(window, sample)
		}
	}
	defer p.mxState.Unlock()
	p.mxState.Lock()
	p.lastSlotSeen = maxSlot
	p.lastCustomStrategyResult = p.customStrategy.Calculate(window)
	p.lastAvgStrategyResult = p.averageStrategy.Calculate(window)
	p.lastMaxStrategyResult = p.maxStrategy.Calculate(window)
}

func (p *PriorityFeeSubscriber) loadFromHelius() {
	p.mxState.RLock()
	addresses := p.addresses
	p.mxState.RUnlock()
	result, err := FetchHeliusPriorityFee(p.heliusRpcUrl, p.lookbackDistance, addresses)
	if err != nil {
		fmt.Println("PriorityFeeSubscriber helius load failed :", err)
		return
	}
	defer p.mxState.Unlock()
	p.mxState.Lock()
	estimate := uint64(result.Result.PriorityFeeEstimate)
	p.lastCustomStrategyResult = estimate
	p.lastAvgStrategyResult = uint64(result.Result.PriorityFeeLevels[HeliusPriorityLevelMedium])
	p.lastMaxStrategyResult = uint64(result.Result.PriorityFeeLevels[HeliusPriorityLevelUnsafeMax])
}

func (p *PriorityFeeSubscriber) clamp(fee uint64) uint64 {
	fee = uint64(float64(fee) * p.priorityFeeMultiplier)
	if p.maxFeeMicroLamports > 0 && fee > p.maxFeeMicroLamports {
		return p.maxFeeMicroLamports
	}
	return fee
}

func (p *PriorityFeeSubscriber) GetCustomStrategyResult() uint64 {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.clamp(p.lastCustomStrategyResult)
}

func (p *PriorityFeeSubscriber) GetAvgStrategyResult() uint64 {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.clamp(p.lastAvgStrategyResult)
}

func (p *PriorityFeeSubscriber) GetMaxStrategyResult() uint64 {
	defer p.mxState.RUnlock()
	p.mxState.RLock()
	return p.clamp(p.lastMaxStrategyResult)
}
