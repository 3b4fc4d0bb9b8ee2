package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/efactura-reconciler/internal/textutil"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DISCOUNT 10%", "discount 10%"},
		{"Reducere comercială", "reducere comerciala"},
		{"  ȘTEFĂNEȘTI Construct  ", "stefanesti construct"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutil.Fold(tt.input))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, textutil.ContainsFold("Ștefănești Construct SRL", "stefanesti"))
	assert.True(t, textutil.ContainsFold("POKA W 9262655", "poka w"))
	assert.False(t, textutil.ContainsFold("Gursk", "poka"))
}
