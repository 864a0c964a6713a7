package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		priority int
		want     string
	}{
		{10, CriticalValue},
		{8, CriticalValue},
		{7, HighValue},
		{6, HighValue},
		{5, ModerateValue},
		{4, ModerateValue},
		{3, LowValue},
		{1, LowValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainLabel(tt.priority), "priority %d", tt.priority)
	}
}

func TestGetColorLabel_ContainsPlainText(t *testing.T) {
	for _, priority := range []int{1, 5, 7, 9} {
		assert.Contains(t, GetColorLabel(priority), GetPlainLabel(priority))
	}
}
