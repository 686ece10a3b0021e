package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrUnknownMarketplace = errors.New("UNKNOWN_MARKETPLACE")
	ErrNoCredential       = errors.New("NO_CREDENTIAL")
	ErrLinkNotFound       = errors.New("LINK_NOT_FOUND")
	ErrSaleNotFound       = errors.New("SALE_NOT_FOUND")
	ErrItemNotFound       = errors.New("ITEM_NOT_FOUND")
	ErrRunInProgress      = errors.New("RUN_IN_PROGRESS")
)
