package vrf

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Prover turns a request seed into verifiable random words.
//
// The proof is a secp256k1 signature over keccak256("VRF_INPUT" || seed).
// Signatures are deterministic (RFC 6979), so one key and one seed always
// give the same output, and anyone holding the public key can check that
// the words were not chosen by the coordinator. Word i is
// keccak256(output || uint256(i)).
type Prover struct {
	key *ecdsa.PrivateKey
}

var (
	inputDomain  = []byte("VRF_INPUT")
	outputDomain = []byte("VRF_OUTPUT")
)

// NewProver wraps a signing key
func NewProver(key *ecdsa.PrivateKey) (*Prover, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key cannot be nil", ErrInvalidProof)
	}
	return &Prover{key: key}, nil
}

// GenerateProver creates a prover with a fresh key
func GenerateProver() (*Prover, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate VRF key: %w", err)
	}
	return &Prover{key: key}, nil
}

// PublicKey returns the uncompressed public key
func (p *Prover) PublicKey() []byte {
	return crypto.FromECDSAPub(&p.key.PublicKey)
}

// Prove signs the seed and derives the output hash
func (p *Prover) Prove(seed []byte) (*Proof, error) {
	input := crypto.Keccak256(inputDomain, seed)

	sig, err := crypto.Sign(input, p.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign VRF input: %w", err)
	}

	return &Proof{
		Input:     input,
		Signature: sig,
		Output:    crypto.Keccak256(outputDomain, sig),
	}, nil
}

// Words expands a proof output into n random values
func Words(output []byte, n uint32) []*big.Int {
	words := make([]*big.Int, n)
	for i := uint32(0); i < n; i++ {
		index := math.U256Bytes(new(big.Int).SetUint64(uint64(i)))
		words[i] = new(big.Int).SetBytes(crypto.Keccak256(output, index))
	}
	return words
}

// Verify checks a proof against a public key
func Verify(publicKey []byte, proof *Proof) bool {
	if proof == nil || len(proof.Signature) != crypto.SignatureLength {
		return false
	}

	// VerifySignature wants [R || S] without the recovery id
	if !crypto.VerifySignature(publicKey, proof.Input, proof.Signature[:crypto.RecoveryIDOffset]) {
		return false
	}

	return bytes.Equal(proof.Output, crypto.Keccak256(outputDomain, proof.Signature))
}

// requestSeed mixes the request parameters into a unique seed
func requestSeed(keyHash string, consumerID string, subID uint64, nonce uint64) []byte {
	return crypto.Keccak256(
		[]byte(keyHash),
		[]byte(consumerID),
		math.U256Bytes(new(big.Int).SetUint64(subID)),
		math.U256Bytes(new(big.Int).SetUint64(nonce)),
	)
}
