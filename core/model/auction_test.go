package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAuction_Defaults(t *testing.T) {
	a, err := DecodeAuction("1-abc", []byte(`{"encryptedBid":"FHE-MQ==","timestamp":10,"owner":"0xAb","nftId":"punk-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "1-abc", a.Id)
	assert.Equal(t, AuctionStatusActive, a.Status)
	assert.Equal(t, float64(0), a.MinBid)
	assert.Equal(t, int64(10), a.Timestamp)
}

func TestDecodeAuction_Errors(t *testing.T) {
	_, err := DecodeAuction("x", nil)
	assert.ErrorIs(t, err, ErrEmptyRecord)

	_, err = DecodeAuction("x", []byte("{not json"))
	assert.Error(t, err)

	_, err = DecodeAuction("x", []byte(" null "))
	assert.ErrorIs(t, err, ErrEmptyRecord)

	for _, raw := range []string{`"text"`, `42`, `[1]`, `true`} {
		_, err = DecodeAuction("x", []byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestDecodeIndex(t *testing.T) {
	keys, err := DecodeIndex(nil)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = DecodeIndex([]byte("   "))
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = DecodeIndex([]byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, keys)
	assert.Empty(t, keys)

	keys, err = DecodeIndex([]byte(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	keys, err = DecodeIndex([]byte(`{"a":1}`))
	assert.Error(t, err)
	assert.Empty(t, keys)
}

func TestEncodeIndex_Nil(t *testing.T) {
	data, err := EncodeIndex(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCloseRecord_OnlyStatusChanges(t *testing.T) {
	original := []byte(`{"encryptedBid":"FHE-MC41","timestamp":1700000000,"owner":"0xABC","nftId":"n<1>&2","status":"active","minBid":0.5,"extra":{"k":[1,2],"html":"<b>"}}`)

	closed, err := CloseRecord(original)
	require.NoError(t, err)

	var before, after map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(original, &before))
	require.NoError(t, json.Unmarshal(closed, &after))

	require.Len(t, after, len(before))
	for k, v := range before {
		if k == "status" {
			assert.JSONEq(t, `"closed"`, string(after[k]))
			continue
		}
		assert.Equal(t, string(v), string(after[k]), "field %s", k)
	}
	assert.NotContains(t, string(closed), `\u003c`)
	assert.NotContains(t, string(closed), "\n")
}

func TestCloseRecord_MissingStatus(t *testing.T) {
	closed, err := CloseRecord([]byte(`{"nftId":"n"}`))
	require.NoError(t, err)
	a, err := DecodeAuction("id", closed)
	require.NoError(t, err)
	assert.Equal(t, AuctionStatusClosed, a.Status)
	assert.Equal(t, "n", a.NftId)
}

func TestCloseRecord_Invalid(t *testing.T) {
	_, err := CloseRecord(nil)
	assert.ErrorIs(t, err, ErrEmptyRecord)
	_, err = CloseRecord([]byte("[1]"))
	assert.Error(t, err)
	_, err = CloseRecord([]byte("null"))
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestAuctionMatches(t *testing.T) {
	a := &Auction{Id: "1700-XyZ", NftId: "CryptoPunk-42", Status: AuctionStatusActive}

	assert.True(t, a.Matches("", TabAll))
	assert.True(t, a.Matches("punk", TabActive))
	assert.True(t, a.Matches("xyz", TabAll))
	assert.False(t, a.Matches("punk", TabClosed))
	assert.False(t, a.Matches("ape", TabAll))
}

func TestAuctionIsOwner(t *testing.T) {
	a := &Auction{Owner: "0xAbCdEf"}
	assert.True(t, a.IsOwner("0xabcdef"))
	assert.False(t, a.IsOwner(""))
	assert.False(t, a.IsOwner("0x1"))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabActive, ParseTab(" Active "))
	assert.Equal(t, TabClosed, ParseTab("closed"))
	assert.Equal(t, TabAll, ParseTab("settled"))
	assert.Equal(t, TabAll, ParseTab(""))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, AuctionStatusSettled.Valid())
	assert.False(t, AuctionStatus("open").Valid())
}
