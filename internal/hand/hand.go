// Package hand implements the six-slot hand of face-down, verifiably
// encrypted cards. A Hand is an owned value: the hosting environment decides
// where it lives and serializes access to it.
package hand

import (
	"errors"
	"fmt"
	"math/big"

	"wormle/internal/cards"
	"wormle/internal/wmlcrypto"
)

// Size is the fixed number of slots in a hand.
const Size = 6

var (
	ErrIndexOutOfRange = errors.New("hand: slot index out of range")
	ErrCardMismatch    = errors.New("hand: plaintext does not match commitment")
)

// Card is the full ciphertext package returned to the holder at draw time:
// the committed (id, k) plaintext and the separately encrypted check scalar.
type Card struct {
	ID wmlcrypto.Ciphertext `json:"id"`
	K  wmlcrypto.Ciphertext `json:"k"`
}

// Hand holds the six committed id-ciphertexts (the observer-visible half of
// each Card) and the public key they were drawn under. Consumed slots hold
// the sentinel ciphertext.
//
// Per-slot lifecycle: empty -> committed (Draw) -> consumed (Use, terminal).
// Only a fresh Draw resets the whole hand.
type Hand struct {
	pk    wmlcrypto.Point
	slots [Size]wmlcrypto.Ciphertext
}

// Load reconstructs a hand from persisted state.
func Load(pk wmlcrypto.Point, slots [Size]wmlcrypto.Ciphertext) *Hand {
	return &Hand{pk: pk, slots: slots}
}

func (h *Hand) PublicKey() wmlcrypto.Point {
	return h.pk
}

// View returns a read-only snapshot of the committed ciphertexts.
func (h *Hand) View() [Size]wmlcrypto.Ciphertext {
	return h.slots
}

// DrawCard double-encrypts one card under pk: the packed (id, k) plaintext
// with ephemeral scalar k, and the shifted scalar k itself with k2. Failure
// of either inner encryption fails the draw as a whole.
func DrawCard(id uint8, k, k2 *big.Int, pk wmlcrypto.Point) (Card, error) {
	idCt, err := wmlcrypto.Encrypt(cards.PackCard(id, k), pk, k)
	if err != nil {
		return Card{}, fmt.Errorf("draw card %d: id ciphertext: %w", id, err)
	}
	kCt, err := wmlcrypto.Encrypt(cards.PackScalar(k), pk, k2)
	if err != nil {
		return Card{}, fmt.Errorf("draw card %d: k ciphertext: %w", id, err)
	}
	return Card{ID: idCt, K: kCt}, nil
}

// Draw populates a fresh hand under pk, slot i committing card identifier i,
// with per-card scalars taken from src in slot order (k then k2). All six
// draws must succeed; a failed draw yields no hand at all.
func Draw(pk wmlcrypto.Point, src wmlcrypto.ScalarSource) (*Hand, [Size]Card, error) {
	var drawn [Size]Card
	h := &Hand{pk: pk}
	for i := 0; i < Size; i++ {
		k, err := src.Scalar()
		if err != nil {
			return nil, drawn, fmt.Errorf("draw slot %d: %w", i, err)
		}
		k2, err := src.Scalar()
		if err != nil {
			return nil, drawn, fmt.Errorf("draw slot %d: %w", i, err)
		}
		c, err := DrawCard(uint8(i), k, k2, pk)
		if err != nil {
			return nil, drawn, fmt.Errorf("draw slot %d: %w", i, err)
		}
		drawn[i] = c
		h.slots[i] = c.ID
	}
	return h, drawn, nil
}

// Validate re-encrypts the claimed (data, k) pair under the hand's public key
// and compares the result coordinate-for-coordinate against the committed
// ciphertext. A plain mismatch (including an already consumed slot) is
// (false, nil); encoding or arithmetic failure is an error.
func (h *Hand) Validate(index int, data, k *big.Int) (bool, error) {
	if index < 0 || index >= Size {
		return false, ErrIndexOutOfRange
	}
	if h.slots[index].IsZero() {
		return false, nil
	}
	ct, err := wmlcrypto.Encrypt(data, h.pk, k)
	if err != nil {
		return false, err
	}
	return ct.Eq(h.slots[index]), nil
}

// Use validates (data, k) against slot index and, on a match, consumes the
// slot and returns the card identifier recovered from the packed plaintext.
// A mismatch leaves the hand untouched and reports ErrCardMismatch.
func (h *Hand) Use(index int, data, k *big.Int) (uint8, error) {
	ok, err := h.Validate(index, data, k)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrCardMismatch
	}
	h.slots[index] = wmlcrypto.CiphertextZero()
	return cards.UnpackID(data), nil
}
