package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	fields := []string{"Username", "HomeDir", "Password"}

	assert.Equal(t, []string{"HomeDir"}, Suggest("HomeDri", fields, 3))
	assert.Equal(t, []string{"Username"}, Suggest("user_name", fields, 3))
	assert.Empty(t, Suggest("Balance", fields, 3))
	assert.Empty(t, Suggest("HomeDir", fields, 0))
}
