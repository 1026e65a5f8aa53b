/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs2023

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herculas/vc-suite-bbs/canonical"
)

func TestPartitionByIndexes_SplitsInAscendingOrder(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}

	mandatory, nonMandatory, err := partitionByIndexes(lines, []int{1, 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "d"}, mandatory)
	assert.Equal(t, []string{"a", "c"}, nonMandatory)
}

func TestPartitionByIndexes_RejectsOutOfRangeIndex(t *testing.T) {
	lines := []string{"a", "b"}

	_, _, err := partitionByIndexes(lines, []int{5})
	require.Error(t, err)
}

func TestLabelMapFactoryFromLabelMap_IgnoresItsInput(t *testing.T) {
	want := canonical.LabelMap{"c14n0": "b3"}
	factory := labelMapFactoryFromLabelMap(want)

	got := factory([]string{"irrelevant", "lines"})
	assert.Equal(t, want, got)
}
