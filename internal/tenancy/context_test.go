package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextCarriesTenantID(t *testing.T) {
	tc := NewContext(42)

	assert.Equal(t, uint(42), tc.TenantID())
	assert.False(t, tc.IsSystem())
	assert.True(t, tc.Valid())
}

func TestSystemContextIsNotTenantZero(t *testing.T) {
	sys := SystemContext()
	zero := NewContext(0)

	// 系统哨兵与租户0必须可区分
	assert.True(t, sys.IsSystem())
	assert.True(t, sys.Valid())
	assert.False(t, zero.IsSystem())
	assert.False(t, zero.Valid())
}

func TestZeroValueContextIsInvalid(t *testing.T) {
	var tc Context
	assert.False(t, tc.Valid())
	assert.False(t, tc.IsSystem())
}
