package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"a": 1})
	b := maps.All(map[string]int{"b": 2})

	got := maps.Collect(IterSeq2Concat(a, b))
	assert.Equal(map[string]int{"a": 1, "b": 2}, got)

	var values []string
	for _, value := range IterSeq2Concat(slices.All([]string{"x", "y"}), slices.All([]string{"z"})) {
		values = append(values, value)
	}
	assert.Equal([]string{"x", "y", "z"}, values)

	// Early stop
	values = values[:0]
	for _, value := range IterSeq2Concat(slices.All([]string{"x"}), slices.All([]string{"y", "z"})) {
		values = append(values, value)
		if len(values) == 2 {
			break
		}
	}
	assert.Equal([]string{"x", "y"}, values)
}
