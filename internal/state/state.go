package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"wormle/internal/hand"
	"wormle/internal/wmlcrypto"
)

type State struct {
	Height int64 `json:"height"`

	AccountKeys map[string][]byte      `json:"accountKeys,omitempty"` // holder -> ed25519 pubkey (32 bytes)
	NonceMax    map[string]uint64      `json:"nonceMax,omitempty"`    // signer -> last accepted tx.nonce (u64), for replay protection
	Hands       map[string]*HandRecord `json:"hands"`
}

// HandRecord is the durable shape of one holder's hand: the EC public key the
// hand was drawn under and the six committed id-ciphertexts. A consumed slot
// holds the 128-byte all-zero sentinel.
type HandRecord struct {
	Holder      string            `json:"holder"`
	PubKey      []byte            `json:"pubKey"` // 64-byte x||y point encoding
	Slots       [hand.Size][]byte `json:"slots"`  // 128-byte ciphertexts (base64 in JSON)
	DrawnHeight int64             `json:"drawnHeight"`
}

func NewState() *State {
	return &State{
		Height:      0,
		AccountKeys: map[string][]byte{},
		NonceMax:    map[string]uint64{},
		Hands:       map[string]*HandRecord{},
	}
}

func Load(home string) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.normalize()
	return &st, nil
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.normalize()
	return &out, nil
}

func (s *State) normalize() {
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Hands == nil {
		s.Hands = map[string]*HandRecord{}
	}
}

func (s *State) AppHash() []byte {
	// Deterministic JSON hash: encoding/json does NOT guarantee map key order,
	// so maps are normalized into sorted slices first.
	type accountKeyKV struct {
		Holder string `json:"holder"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}
	type handKV struct {
		Holder string      `json:"holder"`
		Hand   *HandRecord `json:"hand"`
	}

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Holder: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Holder < accountKeys[j].Holder })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	hands := make([]handKV, 0, len(s.Hands))
	for holder, h := range s.Hands {
		hands = append(hands, handKV{Holder: holder, Hand: h})
	}
	sort.Slice(hands, func(i, j int) bool { return hands[i].Holder < hands[j].Holder })

	normalized := struct {
		Height      int64          `json:"height"`
		AccountKeys []accountKeyKV `json:"accountKeys,omitempty"`
		NonceMax    []nonceKV      `json:"nonceMax,omitempty"`
		Hands       []handKV       `json:"hands"`
	}{
		Height:      s.Height,
		AccountKeys: accountKeys,
		NonceMax:    nonces,
		Hands:       hands,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// ---- Hands ----

// PutHand stores the committed half of a freshly drawn hand.
func (s *State) PutHand(holder string, h *hand.Hand, height int64) {
	rec := &HandRecord{
		Holder:      holder,
		PubKey:      h.PublicKey().Bytes(),
		DrawnHeight: height,
	}
	slots := h.View()
	for i := range slots {
		rec.Slots[i] = slots[i].Bytes()
	}
	s.Hands[holder] = rec
}

// UpdateHand writes back the slot array of an existing hand, preserving the
// record's key and draw height.
func (s *State) UpdateHand(holder string, h *hand.Hand) {
	rec := s.Hands[holder]
	if rec == nil {
		return
	}
	slots := h.View()
	for i := range slots {
		rec.Slots[i] = slots[i].Bytes()
	}
}

// GetHand reconstructs the holder's hand from its durable record.
func (s *State) GetHand(holder string) (*hand.Hand, error) {
	rec := s.Hands[holder]
	if rec == nil {
		return nil, fmt.Errorf("no hand for holder %q", holder)
	}
	pk, err := wmlcrypto.PointFromBytes(rec.PubKey)
	if err != nil {
		return nil, fmt.Errorf("hand for %q: bad public key: %w", holder, err)
	}
	var slots [hand.Size]wmlcrypto.Ciphertext
	for i := range rec.Slots {
		ct, err := wmlcrypto.CiphertextFromBytes(rec.Slots[i])
		if err != nil {
			return nil, fmt.Errorf("hand for %q: slot %d: %w", holder, i, err)
		}
		slots[i] = ct
	}
	return hand.Load(pk, slots), nil
}
