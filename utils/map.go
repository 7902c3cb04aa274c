package utils

import "github.com/gagliardetto/solana-go"

func MapValues[K string | solana.PublicKey | int | int32 | int64 | uint | uint16 | uint32 | uint64, T any](m map[K]T) []T {
	var values []T
	for _, value := range m {
		values = append(values, value)
	}
	return values
}

func MapKeys[K string | solana.PublicKey | int | int32 | int64 | uint | uint16 | uint32 | uint64, T any](m map[K]T) []K {
	var keys []K
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

