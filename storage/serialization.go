// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/concierge/core"
)

// recordFormatVersion prefixes every encoded record.
const recordFormatVersion = 1

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(r core.Record) []byte {
	buf := make([]byte, 1+recordSize(r))
	buf[0] = recordFormatVersion
	marshalRecord(r, buf[1:])
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (core.Record, error) {
	if len(data) == 0 {
		return core.Record{}, ErrTruncatedData
	}
	if data[0] != recordFormatVersion {
		return core.Record{}, fmt.Errorf("%w: unknown record version %d", ErrSerializationFailed, data[0])
	}
	r, _, err := unmarshalRecord(data[1:])
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return r, nil
}

// MarshalRecords serializes a record list to bytes.
func MarshalRecords(records []core.Record) []byte {
	size := 1 + varint.PositiveInt.Size(len(records))
	for _, r := range records {
		size += recordSize(r)
	}
	buf := make([]byte, size)
	buf[0] = recordFormatVersion
	n := 1 + varint.PositiveInt.Marshal(len(records), buf[1:])
	for _, r := range records {
		n += marshalRecord(r, buf[n:])
	}
	return buf
}

// UnmarshalRecords deserializes a record list from bytes.
func UnmarshalRecords(data []byte) ([]core.Record, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	if data[0] != recordFormatVersion {
		return nil, fmt.Errorf("%w: unknown record version %d", ErrSerializationFailed, data[0])
	}
	count, n, err := varint.PositiveInt.Unmarshal(data[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n++
	if count < 0 || count > len(data) {
		return nil, ErrTruncatedData
	}
	records := make([]core.Record, 0, count)
	for range count {
		r, m, err := unmarshalRecord(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += m
		records = append(records, r)
	}
	return records, nil
}

func recordSize(r core.Record) int {
	size := varint.Uint64.Size(uint64(r.ID))
	size += ord.String.Size(string(r.Category))
	for _, s := range recordStrings(&r) {
		size += ord.String.Size(*s)
	}
	size += stringsSize(r.Benefits)
	size += varint.PositiveInt.Size(len(r.FAQ))
	for _, f := range r.FAQ {
		size += ord.String.Size(f.Question) + ord.String.Size(f.Answer)
	}
	size += ord.Bool.Size(r.Sponsored) + ord.Bool.Size(r.Synthetic)
	return size
}

func marshalRecord(r core.Record, bs []byte) int {
	n := varint.Uint64.Marshal(uint64(r.ID), bs)
	n += ord.String.Marshal(string(r.Category), bs[n:])
	for _, s := range recordStrings(&r) {
		n += ord.String.Marshal(*s, bs[n:])
	}
	n += marshalStrings(r.Benefits, bs[n:])
	n += varint.PositiveInt.Marshal(len(r.FAQ), bs[n:])
	for _, f := range r.FAQ {
		n += ord.String.Marshal(f.Question, bs[n:])
		n += ord.String.Marshal(f.Answer, bs[n:])
	}
	n += ord.Bool.Marshal(r.Sponsored, bs[n:])
	n += ord.Bool.Marshal(r.Synthetic, bs[n:])
	return n
}

func unmarshalRecord(bs []byte) (r core.Record, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	r.ID = core.ID(id)

	category, m, err := ord.String.Unmarshal(bs[n:])
	if err != nil {
		return
	}
	n += m
	r.Category = core.Category(category)

	for _, s := range recordStrings(&r) {
		if *s, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += m
	}

	if r.Benefits, m, err = unmarshalStrings(bs[n:]); err != nil {
		return
	}
	n += m

	count, m, err := varint.PositiveInt.Unmarshal(bs[n:])
	if err != nil {
		return
	}
	n += m
	if count > 0 {
		if count > len(bs) {
			err = ErrTruncatedData
			return
		}
		r.FAQ = make([]core.FAQ, count)
		for i := range r.FAQ {
			if r.FAQ[i].Question, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += m
			if r.FAQ[i].Answer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += m
		}
	}

	if r.Sponsored, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if r.Synthetic, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	return
}

// recordStrings lists the plain string fields in wire order.
func recordStrings(r *core.Record) []*string {
	return []*string{&r.Name, &r.Description, &r.Profile, &r.Location, &r.Contact, &r.Price, &r.Languages}
}

func stringsSize(ss []string) int {
	size := varint.PositiveInt.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(ss []string, bs []byte) int {
	n := varint.PositiveInt.Marshal(len(ss), bs)
	for _, s := range ss {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (ss []string, n int, err error) {
	count, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil || count == 0 {
		return
	}
	if count > len(bs) {
		return nil, n, ErrTruncatedData
	}
	ss = make([]string, count)
	var m int
	for i := range ss {
		if ss[i], m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += m
	}
	return
}
