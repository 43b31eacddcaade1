// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.True(t, IsRevertErr(ErrTooManyNominations))

	wrapped := errors.Wrap(ErrNotYetExecutable, "execute leave")
	assert.True(t, IsRevertErr(wrapped))
	assert.True(t, errors.Is(wrapped, ErrNotYetExecutable))
	assert.False(t, errors.Is(wrapped, ErrUnknownCandidate))
}
