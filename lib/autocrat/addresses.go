package autocrat

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var CACHE = make(map[string]solana.PublicKey)

func GetProposalPublicKeyAndNonce(
	programId solana.PublicKey,
	number uint32,
) (solana.PublicKey, uint8) {
	numBuffer := make([]byte, 4)
	binary.LittleEndian.PutUint32(numBuffer, number)
	address, bumpSeed, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("proposal"),
			numBuffer,
		},
		programId,
	)
	if err != nil {
		return solana.PublicKey{}, 0
	}
	return address, bumpSeed
}

func GetProposalPublicKey(programId solana.PublicKey, number uint32) solana.PublicKey {
	cacheKey := fmt.Sprintf("%s-proposal-%d", programId.String(), number)
	address, exists := CACHE[cacheKey]
	if exists {
		return address
	}
	publicKey, _ := GetProposalPublicKeyAndNonce(programId, number)
	CACHE[cacheKey] = publicKey
	return publicKey
}

func GetDaoPublicKey(programId solana.PublicKey) solana.PublicKey {
	cacheKey := programId.String() + "-dao"
	address, exists := CACHE[cacheKey]
	if exists {
		return address
	}
	publicKey, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("WWCACOTMICMIBMHAFTTWYGHMB")},
		programId,
	)
	if err != nil {
		return solana.PublicKey{}
	}
	CACHE[cacheKey] = publicKey
	return publicKey
}
