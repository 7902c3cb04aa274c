package config

type FutarchyEnv string

const (
	FutarchyEnvNone        FutarchyEnv = ""
	FutarchyEnvDevnet      FutarchyEnv = "devnet"
	FutarchyEnvMainnetBeta FutarchyEnv = "mainnet-beta"
)

type FutarchyConfig struct {
	ENV                          FutarchyEnv
	AUTOCRAT_PROGRAM_ID          string
	CONDITIONAL_VAULT_PROGRAM_ID string
	OPENBOOK_PROGRAM_ID          string
	OPENBOOK_TWAP_PROGRAM_ID     string
	META_MINT_ADDRESS            string
	USDC_MINT_ADDRESS            string
}

const OPENBOOK_PROGRAM_ID = "opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb"

var FutarchyConfigs = map[FutarchyEnv]FutarchyConfig{
	FutarchyEnvDevnet: {
		ENV:                          "devnet",
		AUTOCRAT_PROGRAM_ID:          "autoQP9RmUNkzzKRXsMkWicDVZ3h29vvyMDcAYjCxxg",
		CONDITIONAL_VAULT_PROGRAM_ID: "vAuLTsyrvSfZRuRB3XgvkPwNGgYSs9YRYymVebLKoxR",
		OPENBOOK_PROGRAM_ID:          OPENBOOK_PROGRAM_ID,
		OPENBOOK_TWAP_PROGRAM_ID:     "TWAPrdhADy2aTKN5iFZtNnkQYXsEmBEP67HPiJddP3j",
		META_MINT_ADDRESS:            "METADDFL6wWMWEoKTFJwcThTbUmtarRJZjRpzUvkxhr",
		USDC_MINT_ADDRESS:            "8zGuJQqwhZafTah7Uc7Z4tXRnguqkn5KLFAP8oV6PHe2",
	},
	FutarchyEnvMainnetBeta: {
		ENV:                          "mainnet-beta",
		AUTOCRAT_PROGRAM_ID:          "autoQP9RmUNkzzKRXsMkWicDVZ3h29vvyMDcAYjCxxg",
		CONDITIONAL_VAULT_PROGRAM_ID: "vAuLTsyrvSfZRuRB3XgvkPwNGgYSs9YRYymVebLKoxR",
		OPENBOOK_PROGRAM_ID:          OPENBOOK_PROGRAM_ID,
		OPENBOOK_TWAP_PROGRAM_ID:     "TWAPrdhADy2aTKN5iFZtNnkQYXsEmBEP67HPiJddP3j",
		META_MINT_ADDRESS:            "METADDFL6wWMWEoKTFJwcThTbUmtarRJZjRpzUvkxhr",
		USDC_MINT_ADDRESS:            "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	},
}

var CurrentConfig = FutarchyConfigs[FutarchyEnvMainnetBeta]

func GetConfig() *FutarchyConfig {
	return &CurrentConfig
}

func Initialize(env FutarchyEnv, overrideConfig *FutarchyConfig) *FutarchyConfig {
	CurrentConfig = FutarchyConfigs[env]
	if overrideConfig != nil {
		if overrideConfig.AUTOCRAT_PROGRAM_ID != "" {
			CurrentConfig.AUTOCRAT_PROGRAM_ID = overrideConfig.AUTOCRAT_PROGRAM_ID
		}
		if overrideConfig.CONDITIONAL_VAULT_PROGRAM_ID != "" {
			CurrentConfig.CONDITIONAL_VAULT_PROGRAM_ID = overrideConfig.CONDITIONAL_VAULT_PROGRAM_ID
		}
		if overrideConfig.OPENBOOK_PROGRAM_ID != "" {
			CurrentConfig.OPENBOOK_PROGRAM_ID = overrideConfig.OPENBOOK_PROGRAM_ID
		}
		if overrideConfig.OPENBOOK_TWAP_PROGRAM_ID != "" {
			CurrentConfig.OPENBOOK_TWAP_PROGRAM_ID = overrideConfig.OPENBOOK_TWAP_PROGRAM_ID
		}
		if overrideConfig.META_MINT_ADDRESS != "" {
			CurrentConfig.META_MINT_ADDRESS = overrideConfig.META_MINT_ADDRESS
		}
		if overrideConfig.USDC_MINT_ADDRESS != "" {
			CurrentConfig.USDC_MINT_ADDRESS = overrideConfig.USDC_MINT_ADDRESS
		}
	}
	return &CurrentConfig
}
