package priorityFee

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/go-resty/resty/v2"
)

type HeliusPriorityLevel string

const (
	HeliusPriorityLevelMin       HeliusPriorityLevel = "min"
	HeliusPriorityLevelLow       HeliusPriorityLevel = "low"
	HeliusPriorityLevelMedium    HeliusPriorityLevel = "medium"
	HeliusPriorityLevelHigh      HeliusPriorityLevel = "high"
	HeliusPriorityLevelVeryHigh  HeliusPriorityLevel = "veryHigh"
	HeliusPriorityLevelUnsafeMax HeliusPriorityLevel = "unsafeMax"
)

type HeliusPriorityFeeLevels map[HeliusPriorityLevel]float64

type HeliusPriorityFeeResult struct {
	PriorityFeeEstimate float64                 `json:"priorityFeeEstimate"`
	PriorityFeeLevels   HeliusPriorityFeeLevels `json:"priorityFeeLevels"`
}

type HeliusPriorityFeeResponse struct {
	Jsonrpc string                  `json:"jsonrpc"`
	Result  HeliusPriorityFeeResult `json:"result"`
	Id      string                  `json:"id"`
}

func FetchHeliusPriorityFee(
	heliusRpcUrl string,
	lookbackDistance uint64,
	addresses []solana.PublicKey,
) (*HeliusPriorityFeeResponse, error) {
	accountKeys := make([]string, 0, len(addresses))
	for _, address := range addresses {
		accountKeys = append(accountKeys, address.String())
	}
	client := resty.New()
	response, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      "1",
			"method":  "getPriorityFeeEstimate",
			"params": []interface{}{
				map[string]interface{}{
					"accountKeys": accountKeys,
					"options": map[string]interface{}{
						"includeAllPriorityFeeLevels": true,
						"lookbackSlots":               lookbackDistance,
					},
				},
			},
		}).
		Post(heliusRpcUrl)
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != 200 {
		return nil, fmt.Errorf("helius rpc status %d", response.StatusCode())
	}
	var result HeliusPriorityFeeResponse
	if err = json.Unmarshal(response.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
