package evm

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"

	"github.com/da-committer/da-committer/types"
)

const (
	fieldElements      = 4096
	fieldElementSize   = 32
	usableBytesPerElem = 31
	lengthPrefixSize   = 4

	// MaxBlobDataSize is the largest fragment that fits into one blob.
	MaxBlobDataSize = fieldElements*usableBytesPerElem - lengthPrefixSize
)

// blobPayload is the commitment material of one fragment.
type blobPayload struct {
	blob          *kzg4844.Blob
	commitment    kzg4844.Commitment
	proof         kzg4844.Proof
	versionedHash common.Hash
}

// EncodeBlob packs data into a blob. The payload is prefixed with its
// big-endian length and spread over the low 31 bytes of each field element,
// leaving the top byte zero so every element stays below the BLS modulus.
func EncodeBlob(data []byte) (*kzg4844.Blob, error) {
	if len(data) > MaxBlobDataSize {
		return nil, fmt.Errorf("fragment of %d bytes exceeds blob capacity of %d bytes", len(data), MaxBlobDataSize)
	}

	raw := make([]byte, lengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(raw, uint32(len(data)))
	copy(raw[lengthPrefixSize:], data)

	var blob kzg4844.Blob
	for i := 0; len(raw) > 0; i++ {
		n := copy(blob[i*fieldElementSize+1:(i+1)*fieldElementSize], raw)
		raw = raw[n:]
	}

	return &blob, nil
}

// DecodeBlob is the inverse of EncodeBlob.
func DecodeBlob(blob *kzg4844.Blob) ([]byte, error) {
	raw := make([]byte, 0, fieldElements*usableBytesPerElem)
	for i := 0; i < fieldElements; i++ {
		if blob[i*fieldElementSize] != 0 {
			return nil, fmt.Errorf("field element %d has a non-zero high byte", i)
		}
		raw = append(raw, blob[i*fieldElementSize+1:(i+1)*fieldElementSize]...)
	}

	size := binary.BigEndian.Uint32(raw)
	if size > MaxBlobDataSize {
		return nil, fmt.Errorf("invalid blob payload length %d", size)
	}

	return raw[lengthPrefixSize : lengthPrefixSize+int(size)], nil
}

func buildBlobPayload(data []byte) (blobPayload, error) {
	blob, err := EncodeBlob(data)
	if err != nil {
		return blobPayload{}, types.ErrCommitment.Wrap(err.Error())
	}

	commitment, err := kzg4844.BlobToCommitment(blob)
	if err != nil {
		return blobPayload{}, types.ErrCommitment.Wrapf("failed to convert blob to commitment: %v", err)
	}

	proof, err := kzg4844.ComputeBlobProof(blob, commitment)
	if err != nil {
		return blobPayload{}, types.ErrCommitment.Wrapf("failed to compute blob proof: %v", err)
	}

	return blobPayload{
		blob:          blob,
		commitment:    commitment,
		proof:         proof,
		versionedHash: kzg4844.CalcBlobHashV1(sha256.New(), &commitment),
	}, nil
}
