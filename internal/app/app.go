package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	abci "github.com/cometbft/cometbft/abci/types"

	"wormle/internal/codec"
	"wormle/internal/hand"
	"wormle/internal/state"
	"wormle/internal/wmlcrypto"
)

const (
	AppVersion uint64 = 1

	// Domain separator for the deterministic per-draw scalar stream.
	drawScalarDomain = "wml/v1/hand-draw"
)

// Tx result codes. A plain commitment mismatch is deliberately distinct from
// malformed input or a hard encoding/arithmetic failure.
const (
	codeOK       uint32 = 0
	codeErr      uint32 = 1
	codeMismatch uint32 = 2
)

type WormleApp struct {
	*abci.BaseApplication

	home string

	mu       sync.Mutex
	st       *state.State
	lastHash []byte
}

func New(home string) (*WormleApp, error) {
	appHome := filepath.Join(home, "app")
	st, err := state.Load(appHome)
	if err != nil {
		return nil, err
	}
	a := &WormleApp{
		BaseApplication: abci.NewBaseApplication(),
		home:            home,
		st:              st,
		lastHash:        st.AppHash(),
	}
	return a, nil
}

func (a *WormleApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "wormle (v1)",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.st.Height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

func (a *WormleApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	_, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: codeErr, Log: err.Error()}, nil
	}
	// Structural validation only; auth is enforced at delivery.
	return &abci.CheckTxResponse{Code: codeOK}, nil
}

func (a *WormleApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	return &abci.InitChainResponse{}, nil
}

func (a *WormleApp) FinalizeBlock(_ context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.st.Height = req.Height

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		res := a.deliverTx(txBytes, req.Height)
		txResults = append(txResults, res)
	}

	a.lastHash = a.st.AppHash()

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *WormleApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	appHome := filepath.Join(a.home, "app")
	if err := a.st.Save(appHome); err != nil {
		// CometBFT expects Commit to not crash; return error so the node
		// halts loudly instead of diverging.
		return nil, err
	}
	return &abci.CommitResponse{}, nil
}

func (a *WormleApp) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /hands
	// - /hand/<holder>
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/hands":
		holders := make([]string, 0, len(a.st.Hands))
		for h := range a.st.Hands {
			holders = append(holders, h)
		}
		sort.Strings(holders)
		b, _ := json.Marshal(holders)
		return &abci.QueryResponse{Code: codeOK, Value: b, Height: a.st.Height}, nil
	case strings.HasPrefix(path, "/hand/"):
		holder := strings.TrimPrefix(path, "/hand/")
		rec := a.st.Hands[holder]
		if rec == nil {
			return &abci.QueryResponse{Code: codeErr, Log: "hand not found", Height: a.st.Height}, nil
		}
		b, _ := json.Marshal(rec)
		return &abci.QueryResponse{Code: codeOK, Value: b, Height: a.st.Height}, nil
	default:
		return &abci.QueryResponse{Code: codeErr, Log: "unknown query path", Height: a.st.Height}, nil
	}
}

func (a *WormleApp) deliverTx(txBytes []byte, height int64) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
	}

	switch env.Type {
	case "auth/register_key":
		var msg codec.AuthRegisterKeyTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: "bad auth/register_key value"}
		}
		if err := requireRegisterKeyAuth(env, msg); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		if err := checkAndBumpNonce(a.st, env); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		a.st.AccountKeys[msg.Holder] = msg.PubKey
		return okEvent("KeyRegistered", map[string]string{
			"holder": msg.Holder,
		})

	case "hand/draw":
		var msg codec.HandDrawTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: "bad hand/draw value"}
		}
		if msg.Holder == "" {
			return &abci.ExecTxResult{Code: codeErr, Log: "missing holder"}
		}
		if err := requireHolderAuth(a.st, env, msg.Holder); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		if err := checkAndBumpNonce(a.st, env); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		pk, err := parsePublicKey(msg.PubKeyX, msg.PubKeyY)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		src := drawScalarSource(msg.Holder, pk, msg.Seed, env.Nonce)
		h, drawn, err := hand.Draw(pk, src)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("draw hand: %v", err)}
		}
		a.st.PutHand(msg.Holder, h, height)
		data, err := json.Marshal(drawn)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("encode drawn hand: %v", err)}
		}
		res := okEvent("HandDrawn", map[string]string{
			"holder": msg.Holder,
		})
		res.Data = data
		return res

	case "hand/use":
		var msg codec.HandUseTx
		if err := json.Unmarshal(env.Value, &msg); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: "bad hand/use value"}
		}
		if msg.Holder == "" {
			return &abci.ExecTxResult{Code: codeErr, Log: "missing holder"}
		}
		if err := requireHolderAuth(a.st, env, msg.Holder); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		if err := checkAndBumpNonce(a.st, env); err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		h, err := a.st.GetHand(msg.Holder)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: err.Error()}
		}
		data, err := codec.ParseHexBig(msg.Data)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("bad data: %v", err)}
		}
		k, err := codec.ParseHexBig(msg.K)
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("bad k: %v", err)}
		}
		id, err := h.Use(msg.Index, data, k)
		if errors.Is(err, hand.ErrCardMismatch) {
			return &abci.ExecTxResult{Code: codeMismatch, Log: "card does not match commitment"}
		}
		if err != nil {
			return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("use card: %v", err)}
		}
		a.st.UpdateHand(msg.Holder, h)
		return okEvent("CardUsed", map[string]string{
			"holder": msg.Holder,
			"slot":   fmt.Sprintf("%d", msg.Index),
			"card":   fmt.Sprintf("%d", id),
		})

	default:
		return &abci.ExecTxResult{Code: codeErr, Log: fmt.Sprintf("unknown tx type %q", env.Type)}
	}
}

func parsePublicKey(xHex, yHex string) (wmlcrypto.Point, error) {
	x, err := codec.ParseHexBig(xHex)
	if err != nil {
		return wmlcrypto.Point{}, fmt.Errorf("bad pubKeyX: %w", err)
	}
	y, err := codec.ParseHexBig(yHex)
	if err != nil {
		return wmlcrypto.Point{}, fmt.Errorf("bad pubKeyY: %w", err)
	}
	pk, err := wmlcrypto.PointFromCoords(x, y)
	if err != nil {
		return wmlcrypto.Point{}, fmt.Errorf("bad public key: %w", err)
	}
	if pk.IsZero() {
		return wmlcrypto.Point{}, fmt.Errorf("public key must not be the sentinel point")
	}
	return pk, nil
}

// drawScalarSource derives the per-slot (k, k2) stream deterministically from
// tx inputs, so every validator commits the identical hand. The caller-chosen
// seed is the external entropy input.
func drawScalarSource(holder string, pk wmlcrypto.Point, seed []byte, nonce string) wmlcrypto.ScalarSource {
	if seed == nil {
		seed = []byte{}
	}
	return wmlcrypto.NewDerivedScalarSource(drawScalarDomain,
		[]byte(holder), pk.Bytes(), seed, []byte(nonce))
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ev := abci.Event{Type: typ}
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k]})
	}
	return &abci.ExecTxResult{Code: codeOK, Events: []abci.Event{ev}}
}
