package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingPolicy_IsNull(t *testing.T) {
	tests := []struct {
		name   string
		policy MissingPolicy
		value  any
		want   bool
	}{
		{name: "nil", policy: MissingPolicy{}, value: nil, want: true},
		{name: "NaN", policy: MissingPolicy{}, value: math.NaN(), want: true},
		{name: "empty default", policy: DefaultMissingPolicy(), value: "", want: true},
		{name: "empty disabled", policy: MissingPolicy{LiteralNullIsNull: true}, value: "", want: false},
		{name: "NULL", policy: DefaultMissingPolicy(), value: "NULL", want: true},
		{name: "null lower", policy: DefaultMissingPolicy(), value: "null", want: true},
		{name: "null bytes", policy: DefaultMissingPolicy(), value: []byte("Null"), want: true},
		{name: "null case sensitive", policy: MissingPolicy{LiteralNullIsNull: true}, value: "null", want: false},
		{name: "NULL case sensitive", policy: MissingPolicy{LiteralNullIsNull: true}, value: "NULL", want: true},
		{name: "literal disabled", policy: MissingPolicy{EmptyStringIsNull: true}, value: "NULL", want: false},
		{name: "padded NULL", policy: DefaultMissingPolicy(), value: " NULL", want: false},
		{name: "zero", policy: DefaultMissingPolicy(), value: 0, want: false},
		{name: "text", policy: DefaultMissingPolicy(), value: "nullable", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.IsNull(tt.value))
		})
	}
}

func TestMissingPolicy_Count(t *testing.T) {
	p := DefaultMissingPolicy()
	assert.Equal(t, 3, p.Count([]any{nil, "", "x", "NULL", int64(0)}))
	assert.Zero(t, p.Count(nil))
}
