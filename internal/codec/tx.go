package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; a JSON envelope keeps the devnet
// protocol inspectable. This is NOT a final wire encoding.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: included in the signed message for replay protection (must increase per signer).
	// - Signer: logical signer id (the holder for hand txs).
	// - Sig: Ed25519 signature over (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Auth ----

// Holder pubkey registration for tx authentication.
type AuthRegisterKeyTx struct {
	Holder string `json:"holder"`
	PubKey []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Hand ----

// HandDrawTx draws a fresh six-card hand for the holder, committed under the
// holder's EC public key. The seed feeds the deterministic per-slot scalar
// derivation; a holder wanting unpredictable scalars supplies a random seed.
type HandDrawTx struct {
	Holder  string `json:"holder"`
	PubKeyX string `json:"pubKeyX"` // 0x-hex field element
	PubKeyY string `json:"pubKeyY"` // 0x-hex field element
	Seed    []byte `json:"seed,omitempty"`
}

// HandUseTx reveals the claimed plaintext and ephemeral scalar for one slot,
// consuming the card if the re-encryption matches the stored commitment.
type HandUseTx struct {
	Holder string `json:"holder"`
	Index  int    `json:"index"`
	Data   string `json:"data"` // 0x-hex packed (id, k) plaintext
	K      string `json:"k"`    // 0x-hex ephemeral scalar
}
