// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ordmap

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	om := New[string, int]()
	om.Add("default", 0)
	om.Add("composite", 100)
	om.Add("selection", 10)
	assert.Equal(t, []string{"default", "composite", "selection"}, om.Keys())

	om.Add("default", 1)
	assert.Equal(t, 3, om.Len())
	v, ok := om.ValueByKeyTry("default")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	om.SortStableFunc(func(a, b KeyValue[string, int]) int { return cmp.Compare(a.Value, b.Value) })
	assert.Equal(t, []int{1, 10, 100}, om.Values())
	v, _ = om.ValueByKeyTry("composite")
	assert.Equal(t, 100, v)

	assert.True(t, om.DeleteKey("selection"))
	assert.False(t, om.DeleteKey("selection"))
	assert.False(t, om.Has("selection"))
	v, _ = om.ValueByKeyTry("composite")
	assert.Equal(t, 100, v)
	assert.Equal(t, []string{"default", "composite"}, om.Keys())
}

func TestNilLen(t *testing.T) {
	var om *Map[string, int]
	assert.Equal(t, 0, om.Len())
}
