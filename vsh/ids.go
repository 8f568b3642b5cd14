// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vsh

import (
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// newID seeds a deterministic $$/$! value from entropy and clock, per
// SPEC_FULL.md §4.10: two New calls with identical Options always
// produce identical ids, since a zero entropy reader and zero clock are
// themselves deterministic.
func newID(entropy io.Reader, clock time.Time) string {
	if entropy == nil {
		entropy = zeroReader{}
	}
	id, err := ulid.New(ulid.Timestamp(clock), entropy)
	if err != nil {
		return ulid.ULID{}.String()
	}
	return id.String()
}

// zeroReader produces an endless stream of zero bytes, giving a fully
// deterministic ULID when the caller supplies no entropy source.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
