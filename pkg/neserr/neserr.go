// Package neserr defines the error taxonomy surfaced by the core.
//
// Runtime behavior in pkg/nes never returns an error once a Machine has
// started running: undefined opcodes execute documented unofficial
// behavior, unmapped reads return open bus, and out-of-range mapper
// writes are no-ops. These sentinels are only returned from load-time and
// state-restore operations (cartridge parsing, save-state restore, movie
// parsing), per spec.md §7.
package neserr

import "errors"

// Cartridge parse errors.
var (
	ErrInvalidMagic = errors.New("cartridge: invalid iNES magic number")
	ErrTruncated    = errors.New("cartridge: file truncated")
	ErrUnsupported  = errors.New("cartridge: unsupported cartridge layout")
)

// MapperUnsupported is not an error returned to the caller — the machine
// logs it as a warning and substitutes mapper 0 (NROM), per spec.md §7's
// fail-soft policy. It is kept here so callers that want to observe the
// substitution can match on it with errors.Is against a logged event.
var ErrMapperUnsupported = errors.New("cartridge: unsupported mapper, substituting NROM")

// Save-state errors.
var (
	ErrSaveStateVersion = errors.New("savestate: unknown version")
	ErrSaveStateCorrupt = errors.New("savestate: corrupt record")
)

// Movie parse errors.
var ErrMovieParse = errors.New("movie: malformed frame line")
