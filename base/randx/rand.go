// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randx provides a random number source interface so that
// callers can use either the global generator or a separately seeded
// one, which makes randomly generated picking colors reproducible.
package randx

import "math/rand"

// Rand provides an interface with the subset of the standard
// rand.Rand methods used here.
type Rand interface {
	// Seed uses the provided seed value to initialize the generator
	// to a deterministic state.
	Seed(seed int64)

	// Uint32 returns a pseudo-random 32-bit value as a uint32.
	Uint32() uint32

	// Intn returns a non-negative pseudo-random number in [0,n).
	// It panics if n <= 0.
	Intn(n int) int

	// Float32 returns a pseudo-random number in [0.0,1.0).
	Float32() float32
}

// SysRand supports the system random number generator
// for either a separate rand.Rand source, or, if that
// is nil, the global rand stream.
type SysRand struct {

	// if non-nil, use this random number source instead of the global default one
	Rand *rand.Rand
}

// NewGlobalRand returns a new SysRand using the global rand source.
func NewGlobalRand() *SysRand {
	return &SysRand{}
}

// NewSysRand returns a new SysRand with a new rand.Rand source
// with the given initial seed.
func NewSysRand(seed int64) *SysRand {
	return &SysRand{Rand: rand.New(rand.NewSource(seed))}
}

// Seed reseeds the separate source, creating one if needed.
func (r *SysRand) Seed(seed int64) {
	if r.Rand == nil {
		r.Rand = rand.New(rand.NewSource(seed))
		return
	}
	r.Rand.Seed(seed)
}

func (r *SysRand) Uint32() uint32 {
	if r.Rand == nil {
		return rand.Uint32()
	}
	return r.Rand.Uint32()
}

func (r *SysRand) Intn(n int) int {
	if r.Rand == nil {
		return rand.Intn(n)
	}
	return r.Rand.Intn(n)
}

func (r *SysRand) Float32() float32 {
	if r.Rand == nil {
		return rand.Float32()
	}
	return r.Rand.Float32()
}
