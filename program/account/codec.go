// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"bytes"
	"reflect"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/program/reverts"
)

// HeaderLen is the length of the account header: one discriminator byte
// followed by seven zero bytes.
const HeaderLen = 8

// Body is a fixed size account layout tagged by a discriminator.
type Body interface {
	Discriminator() uint8
}

var sizes sync.Map // reflect.Type -> int

// Size returns the encoded size of the layout including the header.
func Size(b Body) int {
	t := reflect.TypeOf(b)
	if v, ok := sizes.Load(t); ok {
		return v.(int)
	}
	zero := reflect.New(t.Elem()).Interface()
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(zero); err != nil {
		panic(errors.Wrapf(err, "size of %v", t))
	}
	size := HeaderLen + buf.Len()
	sizes.Store(t, size)
	return size
}

// Encode serializes the header and body.
func Encode(b Body) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(Size(b))
	buf.WriteByte(b.Discriminator())
	buf.Write(make([]byte, HeaderLen-1))
	if err := bin.NewBorshEncoder(&buf).Encode(b); err != nil {
		return nil, errors.Wrap(err, "encode account")
	}
	return buf.Bytes(), nil
}

// Decode checks the header and deserializes the body.
func Decode(data []byte, b Body) error {
	if len(data) < Size(b) {
		return reverts.ErrInvalidAccountData.Withf("have %d bytes, want %d", len(data), Size(b))
	}
	if data[0] != b.Discriminator() {
		return reverts.ErrInvalidDiscriminator.Withf("have %d, want %d", data[0], b.Discriminator())
	}
	if err := bin.NewBorshDecoder(data[HeaderLen:]).Decode(b); err != nil {
		return reverts.ErrInvalidAccountData.Withf("%v", err)
	}
	return nil
}

// Load validates the owner, writability and header of info, then decodes it.
func Load[T any, PT interface {
	*T
	Body
}](info *host.AccountInfo, owner solana.PublicKey, writable bool) (PT, error) {
	if info.Owner != owner {
		return nil, reverts.ErrInvalidAccountOwner.Withf("%v", info.Key)
	}
	if writable && !info.IsWritable {
		return nil, reverts.ErrAccountNotWritable.Withf("%v", info.Key)
	}
	b := PT(new(T))
	if err := Decode(info.Data, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Store writes b into the account data, which must already be large enough.
func Store(info *host.AccountInfo, b Body) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if len(info.Data) < len(data) {
		return reverts.ErrAccountNotFullSize.Withf("%v", info.Key)
	}
	copy(info.Data, data)
	return nil
}

// IsInitialized reports whether the account carries a discriminator.
func IsInitialized(info *host.AccountInfo) bool {
	return len(info.Data) > 0 && info.Data[0] != 0
}
