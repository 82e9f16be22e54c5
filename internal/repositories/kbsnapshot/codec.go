package kbsnapshot

import (
	"bytes"
	"encoding/json"

	"github.com/klauspost/compress/zstd"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

// Encode renders a snapshot as zstd compressed JSON
func Encode(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.InvalidArgument("snapshot cannot be nil")
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create encoder")
	}
	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		_ = enc.Close()
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to marshal snapshot")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to compress snapshot")
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. A payload that does not decode is a DataLoss error.
func Decode(payload []byte) (*Snapshot, error) {
	dec, err := zstd.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create decoder")
	}
	defer dec.Close()

	var snap Snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode snapshot")
	}
	if snap.Tables == nil {
		return nil, errors.DataLoss("snapshot has no tables")
	}
	return &snap, nil
}
