package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/cyphera/custody-vault/internal/helpers"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

// Transaction applies the ledger rules on top of an AccountStore. It is
// not safe for concurrent use; runtimes hand one out per Execute call.
type Transaction struct {
	store     AccountStore
	programID solana.PublicKey
	signers   map[solana.PublicKey]struct{}
	now       time.Time
}

var _ interfaces.LedgerTx = (*Transaction)(nil)

// NewTransaction binds store to the signer set and clock of one call.
func NewTransaction(store AccountStore, programID solana.PublicKey, signers business.Signers, now time.Time) *Transaction {
	set := make(map[solana.PublicKey]struct{}, len(signers))
	for _, s := range signers {
		set[s] = struct{}{}
	}
	return &Transaction{
		store:     store,
		programID: programID,
		signers:   set,
		now:       now,
	}
}

func (t *Transaction) IsSigner(id solana.PublicKey) bool {
	_, ok := t.signers[id]
	return ok
}

func (t *Transaction) SignWithSeeds(seeds ...[]byte) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress(seeds, t.programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive program address: %w", err)
	}
	t.signers[key] = struct{}{}
	return key, nil
}

func (t *Transaction) Account(key solana.PublicKey) (*business.Account, error) {
	return t.store.GetAccount(key)
}

func (t *Transaction) Allocate(key, payer solana.PublicKey, space int) error {
	if _, err := t.store.GetAccount(key); err == nil {
		return business.ErrAlreadyInitialized
	} else if !errors.Is(err, business.ErrAccountNotFound) {
		return err
	}
	if !t.IsSigner(payer) {
		return fmt.Errorf("%w: payer %s", business.ErrMissingSignature, payer)
	}

	rent := RentExemptMinimum(space)
	if err := t.debit(payer, rent, false); err != nil {
		return err
	}
	return t.store.PutAccount(&business.Account{
		Key:      key,
		Owner:    t.programID,
		Lamports: rent,
		Data:     make([]byte, space),
	})
}

func (t *Transaction) WriteData(key solana.PublicKey, data []byte) error {
	acct, err := t.programAccount(key)
	if err != nil {
		return err
	}
	if len(data) != len(acct.Data) {
		return fmt.Errorf("%w: write of %d bytes into %d byte account", business.ErrInvalidRecordData, len(data), len(acct.Data))
	}
	acct.Data = append(acct.Data[:0], data...)
	return t.store.PutAccount(acct)
}

func (t *Transaction) Close(key, recipient solana.PublicKey) error {
	acct, err := t.programAccount(key)
	if err != nil {
		return err
	}
	if key.Equals(recipient) {
		return fmt.Errorf("%w: account cannot close into itself", business.ErrInvalidAccountOwner)
	}
	if err := t.Credit(recipient, acct.Lamports); err != nil {
		return err
	}
	return t.store.DeleteAccount(key)
}

func (t *Transaction) TransferNative(from, to solana.PublicKey, amount uint64) error {
	if !t.IsSigner(from) {
		return fmt.Errorf("%w: %s", business.ErrMissingSignature, from)
	}
	if err := t.debit(from, amount, false); err != nil {
		return err
	}
	return t.Credit(to, amount)
}

func (t *Transaction) Debit(key solana.PublicKey, amount uint64) error {
	return t.debit(key, amount, true)
}

func (t *Transaction) Credit(key solana.PublicKey, amount uint64) error {
	acct, err := t.store.GetAccount(key)
	if errors.Is(err, business.ErrAccountNotFound) {
		acct = &business.Account{Key: key, Owner: solana.SystemProgramID}
	} else if err != nil {
		return err
	}
	if acct.Lamports, err = helpers.CheckedAdd(acct.Lamports, amount); err != nil {
		return err
	}
	return t.store.PutAccount(acct)
}

func (t *Transaction) RentExemptMinimum(space int) uint64 {
	return RentExemptMinimum(space)
}

func (t *Transaction) Now() time.Time {
	return t.now
}

func (t *Transaction) Tokens() interfaces.TokenCustody {
	return tokenCustody{tx: t}
}

// debit removes lamports from key. Program-owned accounts can be debited by
// the program; anything else must be a system account.
func (t *Transaction) debit(key solana.PublicKey, amount uint64, programOwned bool) error {
	acct, err := t.store.GetAccount(key)
	if err != nil {
		return err
	}
	owner := solana.SystemProgramID
	if programOwned {
		owner = t.programID
	}
	if !acct.Owner.Equals(owner) {
		return fmt.Errorf("%w: %s is owned by %s", business.ErrInvalidAccountOwner, key, acct.Owner)
	}
	if acct.Lamports < amount {
		return fmt.Errorf("%w: %s holds %d lamports, need %d", business.ErrInsufficientFunds, key, acct.Lamports, amount)
	}
	acct.Lamports -= amount
	return t.store.PutAccount(acct)
}

func (t *Transaction) programAccount(key solana.PublicKey) (*business.Account, error) {
	acct, err := t.store.GetAccount(key)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(t.programID) {
		return nil, fmt.Errorf("%w: %s", business.ErrInvalidAccountOwner, key)
	}
	return acct, nil
}

// tokenCustody follows the token program's approve/transfer/revoke rules.
type tokenCustody struct {
	tx *Transaction
}

func (c tokenCustody) TokenAccount(key solana.PublicKey) (*business.TokenAccount, error) {
	return c.tx.store.GetTokenAccount(key)
}

func (c tokenCustody) Approve(source, delegate, owner solana.PublicKey, amount uint64) error {
	acct, err := c.ownedBy(source, owner)
	if err != nil {
		return err
	}
	acct.Delegate = delegate
	acct.DelegatedAmount = amount
	return c.tx.store.PutTokenAccount(acct)
}

func (c tokenCustody) Revoke(source, owner solana.PublicKey) error {
	acct, err := c.ownedBy(source, owner)
	if err != nil {
		return err
	}
	acct.Delegate = solana.PublicKey{}
	acct.DelegatedAmount = 0
	return c.tx.store.PutTokenAccount(acct)
}

func (c tokenCustody) Transfer(source, destination, authority solana.PublicKey, amount uint64) error {
	src, err := c.tx.store.GetTokenAccount(source)
	if err != nil {
		return err
	}
	dst, err := c.tx.store.GetTokenAccount(destination)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return business.ErrTokenMintMismatch
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: %d available, %d requested", business.ErrTokenInsufficientFunds, src.Amount, amount)
	}
	if !c.tx.IsSigner(authority) {
		return fmt.Errorf("%w: %s", business.ErrMissingSignature, authority)
	}

	selfTransfer := source.Equals(destination)
	switch {
	case src.Owner.Equals(authority):
	case src.HasDelegate() && src.Delegate.Equals(authority):
		if src.DelegatedAmount < amount {
			return fmt.Errorf("%w: %d approved, %d requested", business.ErrTokenAllowanceExceeded, src.DelegatedAmount, amount)
		}
		// A self-transfer is validated like any other but consumes no allowance.
		if !selfTransfer {
			src.DelegatedAmount -= amount
			if src.DelegatedAmount == 0 {
				src.Delegate = solana.PublicKey{}
			}
		}
	default:
		return business.ErrTokenNoDelegate
	}

	if selfTransfer {
		return nil
	}
	src.Amount -= amount
	if dst.Amount, err = helpers.CheckedAdd(dst.Amount, amount); err != nil {
		return err
	}
	if err := c.tx.store.PutTokenAccount(src); err != nil {
		return err
	}
	return c.tx.store.PutTokenAccount(dst)
}

func (c tokenCustody) ownedBy(source, owner solana.PublicKey) (*business.TokenAccount, error) {
	acct, err := c.tx.store.GetTokenAccount(source)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(owner) {
		return nil, business.ErrTokenOwnerMismatch
	}
	if !c.tx.IsSigner(owner) {
		return nil, fmt.Errorf("%w: %s", business.ErrMissingSignature, owner)
	}
	return acct, nil
}
