package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBranchResult(t *testing.T) {
	rec := GeneratedNumberRecord{GeneratedRandomNumber: 8, MaxNumber: 10, NumberToCheck: 5}

	greater := NewBranchResult(BranchGreater, rec)
	require.NoError(t, greater.Validate())
	assert.Equal(t, "8 is greater than 5", greater.Message)
	assert.Equal(t, 8, greater.GeneratedRandomNumber)
	assert.Equal(t, 10, greater.MaxNumber)
	assert.Equal(t, 5, greater.NumberToCheck)

	tie := GeneratedNumberRecord{GeneratedRandomNumber: 5, MaxNumber: 10, NumberToCheck: 5}
	lessOrEqual := NewBranchResult(BranchLessOrEqual, tie)
	require.NoError(t, lessOrEqual.Validate())
	assert.Equal(t, "5 is less than or equal to 5", lessOrEqual.Message)
}

func TestBranchResultValidate(t *testing.T) {
	assert.ErrorIs(t, BranchResult{}.Validate(), ErrInvalidResult)
	assert.ErrorIs(t, BranchResult{Branch: "sideways", Message: "x"}.Validate(), ErrInvalidResult)
	assert.NoError(t, BranchResult{Branch: BranchGreater, Message: "x"}.Validate())
}

func TestBranchValid(t *testing.T) {
	assert.True(t, BranchGreater.Valid())
	assert.True(t, BranchLessOrEqual.Valid())
	assert.False(t, Branch("").Valid())
	assert.Equal(t, "lessOrEqual", BranchLessOrEqual.String())
}
