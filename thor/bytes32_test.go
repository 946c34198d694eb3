// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32JSON(t *testing.T) {
	b := BytesToBytes32([]byte("round"))

	data, err := json.Marshal(&b)
	assert.NoError(t, err)
	assert.Equal(t, `"`+b.String()+`"`, string(data))

	var decoded Bytes32
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
}

func TestParseBytes32(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x0000000000000000000000000000000000000000000000000000000000000001", false},
		{"0000000000000000000000000000000000000000000000000000000000000001", false},
		{"1x0000000000000000000000000000000000000000000000000000000000000001", true},
		{"0x01", true},
		{"0xzz00000000000000000000000000000000000000000000000000000000000001", true},
	}
	for _, tt := range tests {
		_, err := ParseBytes32(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
	}
}

func TestBytesToBytes32(t *testing.T) {
	b := BytesToBytes32([]byte{1, 2})
	assert.Equal(t, byte(1), b[30])
	assert.Equal(t, byte(2), b[31])
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())
}
