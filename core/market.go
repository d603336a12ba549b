package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"artisan-dex/chain"
	"artisan-dex/core/model"
	"artisan-dex/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrorInvalidAuction = errors.New("please fill required fields")
	ErrorNotFound       = errors.New("auction not found")
)

const (
	msgCreatePending = "Creating private auction with FHE encryption..."
	msgCreateSuccess = "Private auction created with FHE encryption!"
	msgCreateFailed  = "Auction creation failed: "
	msgClosePending  = "Closing auction with FHE verification..."
	msgCloseSuccess  = "Auction closed successfully!"
	msgCloseFailed   = "Failed to close auction: "
	msgUserRejected  = "Transaction rejected by user"
)

type CreateAuctionParams struct {
	NftId  string  `json:"nftId"`
	MinBid float64 `json:"minBid"`
}

func (p CreateAuctionParams) Validate() error {
	if p.NftId == "" {
		return fmt.Errorf("%w: nft id is empty", ErrorInvalidAuction)
	}
	if p.MinBid == 0 || math.IsNaN(p.MinBid) || math.IsInf(p.MinBid, 0) {
		return fmt.Errorf("%w: minimum bid must be a non-zero number", ErrorInvalidAuction)
	}
	return nil
}

type MarketConfig struct {
	RevealDelay time.Duration
	Session     model.SignatureSession
}

// Market is the client-side view of the auction contract: it caches the
// loaded list and performs the create, close and reveal actions.
//
// Actions are not serialised against each other. Two concurrent creates can
// both read the index before either writes it back, and one append is lost.
type Market struct {
	store  chain.DataStore
	wallet chain.Wallet
	board  *StatusBoard
	cfg    MarketConfig
	nowFn  func() time.Time

	mu       sync.RWMutex
	auctions []*model.Auction
	// loads counts Load calls in flight.
	loads int
}

func NewMarket(store chain.DataStore, wallet chain.Wallet, board *StatusBoard, cfg MarketConfig) *Market {
	return &Market{
		store:    store,
		wallet:   wallet,
		board:    board,
		cfg:      cfg,
		nowFn:    time.Now,
		auctions: []*model.Auction{},
	}
}

// NewSignatureSession builds the parameters embedded in every disclosure
// message for this process.
func NewSignatureSession(store chain.DataStore, chainID int64, durationDays int, now time.Time) (model.SignatureSession, error) {
	publicKey, err := model.RandomHex(model.PublicKeyHexLength)
	if err != nil {
		return model.SignatureSession{}, err
	}
	return model.SignatureSession{
		PublicKey:       publicKey,
		ContractAddress: store.Address(),
		ChainId:         chainID,
		StartTimestamp:  now.Unix(),
		DurationDays:    durationDays,
	}, nil
}

func (m *Market) Board() *StatusBoard {
	return m.board
}

func (m *Market) Session() model.SignatureSession {
	return m.cfg.Session
}

func (m *Market) Wallet() chain.Wallet {
	return m.wallet
}

// Available reports whether the backing store accepts reads.
func (m *Market) Available(ctx context.Context) (bool, error) {
	return m.store.IsAvailable(ctx)
}

func (m *Market) Refreshing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads > 0
}

func (m *Market) beginLoad() {
	m.mu.Lock()
	m.loads++
	m.mu.Unlock()
}

func (m *Market) endLoad() {
	m.mu.Lock()
	m.loads--
	m.mu.Unlock()
}

// Auctions returns the cached list, newest first.
func (m *Market) Auctions() []*model.Auction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Auction, len(m.auctions))
	copy(out, m.auctions)
	return out
}

func (m *Market) Get(id string) (*model.Auction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.auctions {
		if a.Id == id {
			return a, true
		}
	}
	return nil, false
}

// Filter applies the search term and tab to the cached list.
func (m *Market) Filter(search string, tab model.Tab) []*model.Auction {
	return FilterAuctions(m.Auctions(), search, tab)
}

func FilterAuctions(auctions []*model.Auction, search string, tab model.Tab) []*model.Auction {
	out := make([]*model.Auction, 0, len(auctions))
	for _, a := range auctions {
		if a.Matches(search, tab) {
			out = append(out, a)
		}
	}
	return out
}

func (m *Market) Stats() model.AuctionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := model.AuctionStats{Total: len(m.auctions)}
	for _, a := range m.auctions {
		switch a.Status {
		case model.AuctionStatusActive:
			stats.Active++
		case model.AuctionStatusClosed:
			stats.Closed++
		case model.AuctionStatusSettled:
			stats.Settled++
		}
	}
	return stats
}

// CanClose reports whether the connected wallet may be offered the close
// action. It gates presentation only.
func (m *Market) CanClose(a *model.Auction) bool {
	return a.Status == model.AuctionStatusActive && a.IsOwner(m.wallet.Address())
}

// Load re-reads the index and every record. Unreadable records are logged and
// skipped. When the store is unreachable the cached list is kept.
func (m *Market) Load(ctx context.Context) error {
	m.beginLoad()
	defer m.endLoad()
	start := time.Now()
	defer func() { metrics.LoadDuration.Observe(time.Since(start).Seconds()) }()

	available, err := m.store.IsAvailable(ctx)
	if err != nil {
		logrus.Errorf("isAvailable err: %v", err)
		metrics.LoadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	if !available {
		logrus.Warn("store is not available")
		metrics.LoadsTotal.WithLabelValues(metrics.ResultUnavailable).Inc()
		return chain.ErrStoreUnavailable
	}

	keys, err := m.readIndex(ctx)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	list := make([]*model.Auction, 0, len(keys))
	for _, key := range keys {
		data, err := m.store.GetData(ctx, model.AuctionKey(key))
		if err != nil {
			if ctx.Err() != nil {
				metrics.LoadsTotal.WithLabelValues(metrics.ResultError).Inc()
				return ctx.Err()
			}
			logrus.Errorf("load auction %s err: %v", key, err)
			metrics.RecordsSkipped.WithLabelValues("read").Inc()
			continue
		}
		if len(data) == 0 {
			logrus.Warnf("auction %s has no record", key)
			metrics.RecordsSkipped.WithLabelValues("missing").Inc()
			continue
		}
		auction, err := model.DecodeAuction(key, data)
		if err != nil {
			logrus.Errorf("parse auction %s err: %v", key, err)
			metrics.RecordsSkipped.WithLabelValues("parse").Inc()
			continue
		}
		list = append(list, auction)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp > list[j].Timestamp
	})

	m.mu.Lock()
	m.auctions = list
	m.mu.Unlock()

	metrics.AuctionsCached.Set(float64(len(list)))
	metrics.LoadsTotal.WithLabelValues(metrics.ResultOK).Inc()
	logrus.Infof("loaded %d auctions from %d keys", len(list), len(keys))
	return nil
}

// readIndex returns the stored id list. A blank or malformed index reads as
// empty; only transport errors are returned.
func (m *Market) readIndex(ctx context.Context) ([]string, error) {
	data, err := m.store.GetData(ctx, model.IndexKey)
	if err != nil {
		logrus.Errorf("getData %s err: %v", model.IndexKey, err)
		return nil, err
	}
	keys, err := model.DecodeIndex(data)
	if err != nil {
		logrus.Errorf("parse %s err: %v", model.IndexKey, err)
	}
	return keys, nil
}

func (m *Market) newAuctionId() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return fmt.Sprintf("%d-%s", m.nowFn().UnixMilli(), suffix)
}

// Create validates the form, writes the record and appends its id to the index.
func (m *Market) Create(ctx context.Context, params CreateAuctionParams) (*model.Auction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !m.wallet.Connected() {
		return nil, chain.ErrWalletNotConnected
	}

	m.board.Show(model.TxPhasePending, msgCreatePending)

	auction, err := m.create(ctx, params)
	if err != nil {
		logrus.Errorf("create auction err: %v", err)
		metrics.WritesTotal.WithLabelValues("create", writeResult(err)).Inc()
		m.board.Show(model.TxPhaseError, failureMessage(msgCreateFailed, err))
		return nil, err
	}
	metrics.WritesTotal.WithLabelValues("create", metrics.ResultOK).Inc()
	m.board.Show(model.TxPhaseSuccess, msgCreateSuccess)
	logrus.Infof("auction %s created for nft %s", auction.Id, auction.NftId)

	if err := m.Load(ctx); err != nil {
		logrus.Warnf("reload after create err: %v", err)
	}
	return auction, nil
}

func (m *Market) create(ctx context.Context, params CreateAuctionParams) (*model.Auction, error) {
	auction := &model.Auction{
		Id:           m.newAuctionId(),
		EncryptedBid: EncryptNumber(params.MinBid),
		Timestamp:    m.nowFn().Unix(),
		Owner:        m.wallet.Address(),
		NftId:        params.NftId,
		Status:       model.AuctionStatusActive,
		MinBid:       params.MinBid,
	}
	record, err := json.Marshal(auction.Record())
	if err != nil {
		return nil, err
	}
	tx, err := m.store.SetData(ctx, model.AuctionKey(auction.Id), record)
	if err != nil {
		return nil, err
	}
	logrus.Infof("auction %s record written, tx %s", auction.Id, tx.Id)

	keys, err := m.readIndex(ctx)
	if err != nil {
		return nil, err
	}
	keys = append(keys, auction.Id)
	index, err := model.EncodeIndex(keys)
	if err != nil {
		return nil, err
	}
	tx, err = m.store.SetData(ctx, model.IndexKey, index)
	if err != nil {
		return nil, err
	}
	logrus.Infof("%s updated with %d ids, tx %s", model.IndexKey, len(keys), tx.Id)
	return auction, nil
}

// Close flips the stored status to closed. Ownership is not checked here.
func (m *Market) Close(ctx context.Context, id string) error {
	if !m.wallet.Connected() {
		return chain.ErrWalletNotConnected
	}

	m.board.Show(model.TxPhasePending, msgClosePending)

	if err := m.close(ctx, id); err != nil {
		logrus.Errorf("close auction %s err: %v", id, err)
		metrics.WritesTotal.WithLabelValues("close", writeResult(err)).Inc()
		m.board.Show(model.TxPhaseError, failureMessage(msgCloseFailed, err))
		return err
	}
	metrics.WritesTotal.WithLabelValues("close", metrics.ResultOK).Inc()
	m.board.Show(model.TxPhaseSuccess, msgCloseSuccess)
	logrus.Infof("auction %s closed", id)

	if err := m.Load(ctx); err != nil {
		logrus.Warnf("reload after close err: %v", err)
	}
	return nil
}

func (m *Market) close(ctx context.Context, id string) error {
	key := model.AuctionKey(id)
	data, err := m.store.GetData(ctx, key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrorNotFound
	}
	updated, err := model.CloseRecord(data)
	if err != nil {
		return err
	}
	tx, err := m.store.SetData(ctx, key, updated)
	if err != nil {
		return err
	}
	logrus.Infof("auction %s status written, tx %s", id, tx.Id)
	return nil
}

// Reveal asks the wallet to sign the session message and, after the fixed
// delay, decodes the placeholder bid. The signature is not checked.
func (m *Market) Reveal(ctx context.Context, encryptedBid string) (float64, error) {
	if !m.wallet.Connected() {
		return 0, chain.ErrWalletNotConnected
	}

	message := m.cfg.Session.Message()
	if _, err := m.wallet.SignMessage(ctx, message); err != nil {
		logrus.Errorf("decryption failed: %v", err)
		metrics.RevealsTotal.WithLabelValues(writeResult(err)).Inc()
		return 0, err
	}
	logrus.Infof("disclosure message 0x%s signed by %s", model.Keccak256(message), m.wallet.Address())

	if m.cfg.RevealDelay > 0 {
		timer := time.NewTimer(m.cfg.RevealDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.RevealsTotal.WithLabelValues(metrics.ResultError).Inc()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}

	value, err := DecryptNumber(encryptedBid)
	if err != nil {
		logrus.Errorf("decryption failed: %v", err)
		metrics.RevealsTotal.WithLabelValues(metrics.ResultError).Inc()
		return 0, err
	}
	metrics.RevealsTotal.WithLabelValues(metrics.ResultOK).Inc()
	return value, nil
}

// RevealAuction reveals the bid of a cached auction.
func (m *Market) RevealAuction(ctx context.Context, id string) (float64, error) {
	auction, ok := m.Get(id)
	if !ok {
		return 0, ErrorNotFound
	}
	return m.Reveal(ctx, auction.EncryptedBid)
}

func failureMessage(prefix string, err error) string {
	if errors.Is(err, chain.ErrUserRejected) {
		return msgUserRejected
	}
	msg := err.Error()
	if msg == "" {
		msg = "Unknown error"
	}
	return prefix + msg
}

func writeResult(err error) string {
	if errors.Is(err, chain.ErrUserRejected) {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}
