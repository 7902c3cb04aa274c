package openbook

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var CACHE = make(map[string]solana.PublicKey)

func GetOpenOrdersAccountPublicKeyAndNonce(
	programId solana.PublicKey,
	owner solana.PublicKey,
	accountNum uint32,
) (solana.PublicKey, uint8) {
	numBuffer := make([]byte, 4)
	binary.LittleEndian.PutUint32(numBuffer, accountNum)
	address, bumpSeed, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("OpenOrders"),
			owner.Bytes(),
			numBuffer,
		},
		programId,
	)
	if err != nil {
		return solana.PublicKey{}, 0
	}
	return address, bumpSeed
}

func GetOpenOrdersAccountPublicKey(
	programId solana.PublicKey,
	owner solana.PublicKey,
	accountNum uint32,
) solana.PublicKey {
	cacheKey := fmt.Sprintf("%s-%s-%d", programId.String(), owner.String(), accountNum)
	address, exists := CACHE[cacheKey]
	if exists {
		return address
	}
	publicKey, _ := GetOpenOrdersAccountPublicKeyAndNonce(programId, owner, accountNum)
	CACHE[cacheKey] = publicKey
	return publicKey
}

func GetMarketAuthorityPublicKey(
	programId solana.PublicKey,
	market solana.PublicKey,
) solana.PublicKey {
	cacheKey := fmt.Sprintf("%s-authority-%s", programId.String(), market.String())
	address, exists := CACHE[cacheKey]
	if exists {
		return address
	}
	publicKey, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("Market"),
			market.Bytes(),
		},
		programId,
	)
	if err != nil {
		return solana.PublicKey{}
	}
	CACHE[cacheKey] = publicKey
	return publicKey
}

func GetEventAuthorityPublicKey(programId solana.PublicKey) solana.PublicKey {
	cacheKey := fmt.Sprintf("%s-event-authority", programId.String())
	address, exists := CACHE[cacheKey]
	if exists {
		return address
	}
	publicKey, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("__event_authority")},
		programId,
	)
	if err != nil {
		return solana.PublicKey{}
	}
	CACHE[cacheKey] = publicKey
	return publicKey
}
