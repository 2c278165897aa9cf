// Package bridge holds the types and the error taxonomy shared by the custody
// bridge program: the instruction codec, the persisted state records and the
// instruction processor.
//
// Every failure produced by the program is an *Error carrying a stable Code.
// Callers should compare against the exported sentinels with errors.Is or read
// the discriminant with CodeOf rather than matching on messages.
package bridge
