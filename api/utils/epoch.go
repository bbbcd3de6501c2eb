// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	epochCurrent  = "current"
	epochPrevious = "previous"
)

// ParseEpoch parses an epoch given as a decimal number, "current" or
// "previous", relative to the current epoch.
func ParseEpoch(s string, current uint64) (uint64, error) {
	switch s {
	case "", epochCurrent:
		return current, nil
	case epochPrevious:
		if current == 0 {
			return 0, errors.New("no epoch before genesis")
		}
		return current - 1, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "epoch")
	}
	return n, nil
}

// EpochVar parses the path variable name with ParseEpoch.
func EpochVar(r *http.Request, name string, current uint64) (uint64, error) {
	epoch, err := ParseEpoch(mux.Vars(r)[name], current)
	if err != nil {
		return 0, BadRequest(err)
	}
	return epoch, nil
}
