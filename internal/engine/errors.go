package engine

import "errors"

// Validation errors abort an operation before anything is written
var (
	ErrNoUser            = errors.New("no authenticated user")
	ErrNoPlayerSelected  = errors.New("no player selected")
	ErrInvalidMultiplier = errors.New("number of games must be at least 1")
	ErrInvalidStats      = errors.New("invalid stats")
	ErrInvalidPlayer     = errors.New("invalid player")
	ErrEmptyImport       = errors.New("no rows to import")
	ErrNoRowsForPlayer   = errors.New("no games found in import for selected player")
	ErrBatchGame         = errors.New("game belongs to an import batch; undo the batch instead")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Not-found errors
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrBatchNotFound  = errors.New("import batch not found")
	ErrNoManualEntry  = errors.New("no manual game entry to undo")
	ErrNoBatch        = errors.New("last entry was not an import batch")
)

// IsValidation reports whether err is a caller-correctable validation failure
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNoUser, ErrNoPlayerSelected, ErrInvalidMultiplier, ErrInvalidStats,
		ErrInvalidPlayer, ErrEmptyImport, ErrNoRowsForPlayer, ErrBatchGame, ErrUnknownCollection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the target record does not exist
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrPlayerNotFound, ErrGameNotFound, ErrBatchNotFound, ErrNoManualEntry, ErrNoBatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
