// Command ethsig derives Ethereum account addresses and signs, verifies and
// recovers Keccak-256 message digests with secp256k1.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
