package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"strconv"

	"wormle/internal/codec"
	"wormle/internal/state"
)

const txAuthDomain = "wml/tx/v1"

func txAuthSignBytes(typ string, value []byte, nonce string, signer string) []byte {
	// signBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomain)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomain)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return fmt.Errorf("missing tx.nonce")
	}
	if env.Signer == "" {
		return fmt.Errorf("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return fmt.Errorf("missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

// requireHolderAuth verifies that the tx was signed by the holder's
// registered key.
func requireHolderAuth(st *state.State, env codec.TxEnvelope, holder string) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}
	if holder == "" {
		return fmt.Errorf("missing holder")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != holder {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, holder)
	}
	pub := st.AccountKeys[holder]
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("holder %q has no registered key", holder)
	}
	msg := txAuthSignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

// requireRegisterKeyAuth checks a key registration is self-signed by the key
// being registered.
func requireRegisterKeyAuth(env codec.TxEnvelope, msg codec.AuthRegisterKeyTx) error {
	if msg.Holder == "" {
		return fmt.Errorf("missing holder")
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != msg.Holder {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, msg.Holder)
	}
	signBytes := txAuthSignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(msg.PubKey), signBytes, env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

// checkAndBumpNonce enforces strictly increasing numeric nonces per signer.
// The nonce burns as soon as auth passes, even if the tx later fails
// execution; a retry must be re-signed with a fresh nonce.
func checkAndBumpNonce(st *state.State, env codec.TxEnvelope) error {
	nonce, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tx.nonce %q: must be a u64", env.Nonce)
	}
	if nonce <= st.NonceMax[env.Signer] {
		return fmt.Errorf("stale tx.nonce %d for signer %q (last %d)", nonce, env.Signer, st.NonceMax[env.Signer])
	}
	st.NonceMax[env.Signer] = nonce
	return nil
}
