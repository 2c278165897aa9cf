package bridge

import (
	"errors"
	"fmt"
)

// Kind groups error codes into the categories callers branch on.
type Kind string

const (
	KindDecode        Kind = "Decode"
	KindAuthorization Kind = "Authorization"
	KindState         Kind = "State"
	KindValidation    Kind = "Validation"
	KindCollaborator  Kind = "Collaborator"
)

// Code is the stable discriminant returned to callers for a failed instruction.
// Values are part of the wire contract and must never be renumbered.
type Code uint32

const (
	CodeInvalidInstruction Code = iota
	CodeInstructionUnpack
	CodeInvalidAccountData
	CodeInvalidBoolValue
	CodeMissingRequiredSignature
	CodeInvalidAuthorityAccount
	CodeBeaconsUninitialized
	CodeCounterUninitialized
	CodePDAAccountCreated
	CodeEmptyWithdrawList
	CodeInvalidNumberOfSignature
	CodeInvalidBeaconSignature
	CodeIncorrectProgramID
	CodeInvalidPDAAccount
	CodeInvalidTransferTokenData
	CodeTooManyBeacons
	CodeInvalidDestinationAddress
	CodeCounterOverflow
	CodeTokenTransferFailed
	CodeCloseTokenAccountFailed
	CodeNotEnoughAccountKeys
	CodeAccountCreationFailed
)

var codeNames = map[Code]string{
	CodeInvalidInstruction:        "InvalidInstruction",
	CodeInstructionUnpack:         "InstructionUnpackError",
	CodeInvalidAccountData:        "InvalidAccountData",
	CodeInvalidBoolValue:          "InvalidBoolValue",
	CodeMissingRequiredSignature:  "MissingRequiredSignature",
	CodeInvalidAuthorityAccount:   "InvalidAuthorityAccount",
	CodeBeaconsUninitialized:      "BeaconsUninitialized",
	CodeCounterUninitialized:      "CounterUninitialized",
	CodePDAAccountCreated:         "PDAAccountCreated",
	CodeEmptyWithdrawList:         "EmptyWithdrawList",
	CodeInvalidNumberOfSignature:  "InvalidNumberOfSignature",
	CodeInvalidBeaconSignature:    "InvalidBeaconSignature",
	CodeIncorrectProgramID:        "IncorrectProgramID",
	CodeInvalidPDAAccount:         "InvalidPDAAccount",
	CodeInvalidTransferTokenData:  "InvalidTransferTokenData",
	CodeTooManyBeacons:            "TooManyBeacons",
	CodeInvalidDestinationAddress: "InvalidDestinationAddress",
	CodeCounterOverflow:           "CounterOverflow",
	CodeTokenTransferFailed:       "TokenTransferFailed",
	CodeCloseTokenAccountFailed:   "CloseTokenAccountFailed",
	CodeNotEnoughAccountKeys:      "NotEnoughAccountKeys",
	CodeAccountCreationFailed:     "AccountCreationFailed",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// Error is the structured failure returned by every bridge operation.
//
// Two errors are equal under errors.Is when their codes match, so callers may
// compare against the package sentinels even when a cause has been attached.
type Error struct {
	Code    Code
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("bridge: %s: %v", e.Message, e.Cause)
	}
	return "bridge: " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches on code only.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of e carrying cause. The sentinel itself is left untouched.
func (e *Error) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return &Error{Code: e.Code, Kind: e.Kind, Message: e.Message, Cause: cause}
}

// Wrapf is Wrap with a formatted cause.
func (e *Error) Wrapf(format string, args ...any) error {
	return e.Wrap(fmt.Errorf(format, args...))
}

func newError(code Code, kind Kind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Message: msg}
}

var (
	ErrInvalidInstruction = newError(CodeInvalidInstruction, KindDecode, "unrecognized instruction")
	ErrInstructionUnpack  = newError(CodeInstructionUnpack, KindDecode, "instruction unpack error")
	ErrInvalidAccountData = newError(CodeInvalidAccountData, KindDecode, "invalid account data")
	ErrInvalidBoolValue   = newError(CodeInvalidBoolValue, KindDecode, "invalid bool value")

	ErrMissingRequiredSignature = newError(CodeMissingRequiredSignature, KindAuthorization, "missing required signature")
	ErrInvalidAuthorityAccount  = newError(CodeInvalidAuthorityAccount, KindAuthorization, "invalid authority account")

	ErrBeaconsUninitialized = newError(CodeBeaconsUninitialized, KindState, "beacon list is not initialized")
	ErrCounterUninitialized = newError(CodeCounterUninitialized, KindState, "replay counter is not initialized")
	ErrPDAAccountCreated    = newError(CodePDAAccountCreated, KindState, "derived account already created")
	ErrCounterOverflow      = newError(CodeCounterOverflow, KindState, "replay counter overflow")

	ErrEmptyWithdrawList         = newError(CodeEmptyWithdrawList, KindValidation, "empty withdraw list")
	ErrInvalidNumberOfSignature  = newError(CodeInvalidNumberOfSignature, KindValidation, "invalid number of signatures")
	ErrInvalidBeaconSignature    = newError(CodeInvalidBeaconSignature, KindValidation, "invalid beacon signature")
	ErrIncorrectProgramID        = newError(CodeIncorrectProgramID, KindValidation, "incorrect program id")
	ErrInvalidPDAAccount         = newError(CodeInvalidPDAAccount, KindValidation, "invalid derived account")
	ErrInvalidTransferTokenData  = newError(CodeInvalidTransferTokenData, KindValidation, "invalid transfer token data")
	ErrTooManyBeacons            = newError(CodeTooManyBeacons, KindValidation, "too many beacons")
	ErrInvalidDestinationAddress = newError(CodeInvalidDestinationAddress, KindValidation, "invalid destination chain address")

	ErrTokenTransferFailed     = newError(CodeTokenTransferFailed, KindCollaborator, "token transfer failed")
	ErrCloseTokenAccountFailed = newError(CodeCloseTokenAccountFailed, KindCollaborator, "close token account failed")
	ErrNotEnoughAccountKeys    = newError(CodeNotEnoughAccountKeys, KindCollaborator, "not enough account keys")
	ErrAccountCreationFailed   = newError(CodeAccountCreationFailed, KindCollaborator, "account creation failed")
)

// CodeOf extracts the discriminant from err. ok is false for errors that did not
// originate in the bridge.
func CodeOf(err error) (code Code, ok bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code, true
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
