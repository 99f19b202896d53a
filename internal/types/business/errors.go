package business

import "fmt"

// VaultError is a terminal, call-aborting vault failure. Codes follow the
// program error table (6000+) so clients can match on either name or code.
type VaultError struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

var (
	ErrDelegationNotFound     = &VaultError{Code: 6000, Name: "DelegationNotFound", Message: "delegation not found"}
	ErrDelegationExpired      = &VaultError{Code: 6001, Name: "DelegationExpired", Message: "delegation has expired"}
	ErrDelegationRevoked      = &VaultError{Code: 6002, Name: "DelegationRevoked", Message: "delegation has been revoked"}
	ErrUnauthorized           = &VaultError{Code: 6003, Name: "Unauthorized", Message: "signer is not allowed to perform this action"}
	ErrTransferLimitExceeded  = &VaultError{Code: 6004, Name: "TransferLimitExceeded", Message: "transfer amount exceeds delegation limit"}
	ErrAmountExceedsHardLimit = &VaultError{Code: 6005, Name: "AmountExceedsHardLimit", Message: "transfer amount exceeds the global maximum"}
	ErrInsufficientFunds      = &VaultError{Code: 6006, Name: "InsufficientFunds", Message: "insufficient funds in vault profile"}
	ErrAlreadyInitialized     = &VaultError{Code: 6007, Name: "AlreadyInitialized", Message: "account is already initialized"}
	ErrNotOwner               = &VaultError{Code: 6008, Name: "NotOwner", Message: "caller does not own this record"}
	ErrArithmeticOverflow     = &VaultError{Code: 6009, Name: "ArithmeticOverflow", Message: "balance arithmetic overflowed"}
	ErrMissingSignature       = &VaultError{Code: 6010, Name: "MissingSignature", Message: "required signature is missing"}
	ErrTokenAccountMismatch   = &VaultError{Code: 6011, Name: "TokenAccountMismatch", Message: "token account does not match owner or mint"}
	ErrAccountNotFound        = &VaultError{Code: 6012, Name: "AccountNotFound", Message: "ledger account not found"}
	ErrInvalidRecordData      = &VaultError{Code: 6013, Name: "InvalidRecordData", Message: "record data is malformed"}
	ErrInvalidAccountOwner    = &VaultError{Code: 6014, Name: "InvalidAccountOwner", Message: "account is not owned by the vault program"}
	ErrInvalidAmount          = &VaultError{Code: 6015, Name: "InvalidAmount", Message: "amount must be greater than zero"}
	ErrInvalidExpiry          = &VaultError{Code: 6016, Name: "InvalidExpiry", Message: "expiry offset is out of range"}
)

// Token custody failures.
var (
	ErrTokenInsufficientFunds = &VaultError{Code: 7000, Name: "TokenInsufficientFunds", Message: "token account balance is too low"}
	ErrTokenOwnerMismatch     = &VaultError{Code: 7001, Name: "TokenOwnerMismatch", Message: "authority does not own the token account"}
	ErrTokenMintMismatch      = &VaultError{Code: 7002, Name: "TokenMintMismatch", Message: "token accounts hold different mints"}
	ErrTokenNoDelegate        = &VaultError{Code: 7003, Name: "TokenNoDelegate", Message: "authority is not the approved delegate"}
	ErrTokenAllowanceExceeded = &VaultError{Code: 7004, Name: "TokenAllowanceExceeded", Message: "transfer exceeds the delegated allowance"}
)

// AllErrors lists every VaultError for lookup by code.
var AllErrors = []*VaultError{
	ErrDelegationNotFound, ErrDelegationExpired, ErrDelegationRevoked, ErrUnauthorized,
	ErrTransferLimitExceeded, ErrAmountExceedsHardLimit, ErrInsufficientFunds, ErrAlreadyInitialized,
	ErrNotOwner, ErrArithmeticOverflow, ErrMissingSignature, ErrTokenAccountMismatch,
	ErrAccountNotFound, ErrInvalidRecordData, ErrInvalidAccountOwner, ErrInvalidAmount,
	ErrInvalidExpiry,
	ErrTokenInsufficientFunds, ErrTokenOwnerMismatch, ErrTokenMintMismatch, ErrTokenNoDelegate,
	ErrTokenAllowanceExceeded,
}

// ErrorByCode returns the VaultError registered under code, or nil.
func ErrorByCode(code int) *VaultError {
	for _, e := range AllErrors {
		if e.Code == code {
			return e
		}
	}
	return nil
}
