package business

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MarshalWithEncoder writes the Borsh body: the fixed 113-byte core followed by
// the allowance/expiry extension.
func (r DelegationRecord) MarshalWithEncoder(enc *bin.Encoder) error {
	for _, key := range []solana.PublicKey{r.Owner, r.VaultTokenAccount, r.AssetMint} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	if err := enc.WriteUint64(r.DelegatedAmount, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.VaultSolBalance, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteBool(r.IsEnabled); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.RemainingAllowance, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteInt64(r.ExpiresAt, binary.LittleEndian)
}

// UnmarshalWithDecoder reads the body written by MarshalWithEncoder.
func (r *DelegationRecord) UnmarshalWithDecoder(dec *bin.Decoder) error {
	keys := []*solana.PublicKey{&r.Owner, &r.VaultTokenAccount, &r.AssetMint}
	for _, key := range keys {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(raw)
	}

	var err error
	if r.DelegatedAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if r.VaultSolBalance, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	flag, err := dec.ReadByte()
	if err != nil {
		return err
	}
	if flag > 1 {
		return fmt.Errorf("invalid bool byte %d", flag)
	}
	r.IsEnabled = flag == 1
	if r.RemainingAllowance, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	r.ExpiresAt, err = dec.ReadInt64(binary.LittleEndian)
	return err
}

// EncodeRecord serializes a record with its discriminator into exactly
// RecordAccountSize bytes.
func EncodeRecord(r DelegationRecord) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, RecordAccountSize))
	buf.Write(RecordDiscriminator[:])
	if err := bin.NewBorshEncoder(buf).Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode delegation record: %w", err)
	}
	if buf.Len() != RecordAccountSize {
		return nil, fmt.Errorf("encoded record is %d bytes, want %d", buf.Len(), RecordAccountSize)
	}
	return buf.Bytes(), nil
}

// DecodeRecord parses account data produced by EncodeRecord. An all-zero
// buffer decodes to an uninitialized record.
func DecodeRecord(data []byte) (DelegationRecord, error) {
	var r DelegationRecord
	if len(data) != RecordAccountSize {
		return r, fmt.Errorf("%w: length %d, want %d", ErrInvalidRecordData, len(data), RecordAccountSize)
	}
	if isZero(data) {
		return r, nil
	}
	if !bytes.Equal(data[:DiscriminatorSize], RecordDiscriminator[:]) {
		return r, fmt.Errorf("%w: discriminator mismatch", ErrInvalidRecordData)
	}
	if err := bin.NewBorshDecoder(data[DiscriminatorSize:]).Decode(&r); err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidRecordData, err)
	}
	return r, nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
