package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

type AuctionStatus string
type Tab string

const (
	AuctionStatusActive  AuctionStatus = "active"
	AuctionStatusClosed  AuctionStatus = "closed"
	AuctionStatusSettled AuctionStatus = "settled"

	TabAll    Tab = "all"
	TabActive Tab = "active"
	TabClosed Tab = "closed"

	// IndexKey holds the JSON array of every auction id.
	IndexKey = "auction_keys"

	auctionKeyPrefix = "auction_"
)

var (
	ErrEmptyRecord = errors.New("empty auction record")
)

type Auction struct {
	Id           string        `json:"id"`
	EncryptedBid string        `json:"encryptedBid"`
	Timestamp    int64         `json:"timestamp"`
	Owner        string        `json:"owner"`
	NftId        string        `json:"nftId"`
	Status       AuctionStatus `json:"status"`
	MinBid       float64       `json:"minBid"`
}

// AuctionRecord is the JSON document stored under AuctionKey(id). The id
// itself is not part of the record.
type AuctionRecord struct {
	EncryptedBid string        `json:"encryptedBid"`
	Timestamp    int64         `json:"timestamp"`
	Owner        string        `json:"owner"`
	NftId        string        `json:"nftId"`
	Status       AuctionStatus `json:"status"`
	MinBid       float64       `json:"minBid"`
}

type AuctionStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Closed  int `json:"closed"`
	Settled int `json:"settled"`
}

func AuctionKey(id string) string {
	return auctionKeyPrefix + id
}

func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionStatusActive, AuctionStatusClosed, AuctionStatusSettled:
		return true
	}
	return false
}

// ParseTab maps free-form input to a Tab, defaulting to TabAll.
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabActive:
		return TabActive
	case TabClosed:
		return TabClosed
	}
	return TabAll
}

// DecodeAuction parses a stored record. Missing status reads as active and
// missing minBid as zero. A JSON null is not a record.
func DecodeAuction(id string, data []byte) (*Auction, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRecord
	}
	var rec *AuctionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrEmptyRecord
	}
	if rec.Status == "" {
		rec.Status = AuctionStatusActive
	}
	return &Auction{
		Id:           id,
		EncryptedBid: rec.EncryptedBid,
		Timestamp:    rec.Timestamp,
		Owner:        rec.Owner,
		NftId:        rec.NftId,
		Status:       rec.Status,
		MinBid:       rec.MinBid,
	}, nil
}

func (a *Auction) Record() AuctionRecord {
	return AuctionRecord{
		EncryptedBid: a.EncryptedBid,
		Timestamp:    a.Timestamp,
		Owner:        a.Owner,
		NftId:        a.NftId,
		Status:       a.Status,
		MinBid:       a.MinBid,
	}
}

// IsOwner reports whether addr owns the auction, ignoring hex case.
func (a *Auction) IsOwner(addr string) bool {
	return addr != "" && strings.EqualFold(a.Owner, addr)
}

// Matches reports whether the auction passes both the search and tab filters.
func (a *Auction) Matches(search string, tab Tab) bool {
	term := strings.ToLower(search)
	matchesSearch := strings.Contains(strings.ToLower(a.NftId), term) ||
		strings.Contains(strings.ToLower(a.Id), term)
	matchesTab := tab == TabAll || tab == "" || string(a.Status) == string(tab)
	return matchesSearch && matchesTab
}

// DecodeIndex parses the index document. Blank input yields an empty list.
func DecodeIndex(data []byte) ([]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []string{}, nil
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return []string{}, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func EncodeIndex(keys []string) ([]byte, error) {
	if keys == nil {
		keys = []string{}
	}
	return json.Marshal(keys)
}

// CloseRecord rewrites the status field of a stored record to closed,
// leaving every other field, known or not, untouched.
func CloseRecord(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRecord
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrEmptyRecord
	}
	status, err := json.Marshal(AuctionStatusClosed)
	if err != nil {
		return nil, err
	}
	fields["status"] = status

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
