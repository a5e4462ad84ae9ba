package domain

import "errors"

// ErrNotRunning is returned when a driver or session is used after shutdown.
var ErrNotRunning = errors.New("interpreter not running")

// ErrNoCheckpoint is returned when a restore is requested for a frame that
// has no save file.
var ErrNoCheckpoint = errors.New("no checkpoint for frame")

// ErrSaveFailed is returned when the interpreter's save command did not
// produce the expected file.
var ErrSaveFailed = errors.New("interpreter save failed")

// ErrRestoreFailed is returned when the interpreter reports that restoring
// a save file failed.
var ErrRestoreFailed = errors.New("interpreter restore failed")

// ErrCannotUndo is returned when the interpreter refuses an undo or answers
// it with nothing recognizable.
var ErrCannotUndo = errors.New("interpreter cannot undo")

// ErrNoProgress is returned by progress stores when no table has ever been
// saved, or the store has been reset.
var ErrNoProgress = errors.New("no recorded progress")

// ErrStrandNotFound is returned by progress stores when a requested strand
// key has no entry.
var ErrStrandNotFound = errors.New("strand not found")

// ErrProfileInvalid wraps the structural problems found while validating a
// game profile.
var ErrProfileInvalid = errors.New("invalid game profile")
