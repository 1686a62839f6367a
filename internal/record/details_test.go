package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogDetails_Order(t *testing.T) {
	d := NewLogDetails()
	d.Set("filepath", "/src/a")
	d.Set("zeta", 1)
	d.Set("alpha", true)
	d.Set("zeta", 2)

	assert.Equal(t, []string{"filepath", "zeta", "alpha"}, d.Keys())

	var got []string
	var vals []any
	for k, v := range d.All() {
		got = append(got, k)
		vals = append(vals, v)
	}
	assert.Equal(t, d.Keys(), got)
	assert.Equal(t, []any{"/src/a", 2, true}, vals)
}

func TestLogDetails_ErrorValues(t *testing.T) {
	d := NewLogDetails()
	d.Set("copy_error", errors.New("disk full"))
	assert.Equal(t, "disk full", d.String("copy_error"))
	assert.Equal(t, "", d.String("missing"))
	assert.False(t, d.Bool("copy_error"))
}
