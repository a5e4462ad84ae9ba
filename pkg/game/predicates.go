package game

import (
	"errors"
	"slices"
	"strings"

	"github.com/patrick-brian-mooney/IF-utils/pkg/domain"
)

// Built-in predicate names.
const (
	PredNoRepeat  = "no-repeat"
	PredMaxUses   = "max-uses"
	PredMaxDepth  = "max-depth"
	PredInRoom    = "in-room"
	PredNotInRoom = "not-in-room"
	PredHas       = "has"
	PredLacks     = "lacks"
	PredAfter     = "after"
)

func builtins() map[string]PredicateBuilder {
	return map[string]PredicateBuilder{
		PredNoRepeat:  buildNoRepeat,
		PredMaxUses:   buildMaxUses,
		PredMaxDepth:  buildMaxDepth,
		PredInRoom:    buildInRoom,
		PredNotInRoom: buildNotInRoom,
		PredHas:       buildHas,
		PredLacks:     buildLacks,
		PredAfter:     buildAfter,
	}
}

// NoRepeat blocks a command from immediately following itself. This is the
// predicate that keeps commands like WAIT from recursing forever.
func NoRepeat() Predicate {
	return func(snap domain.Snapshot, command string) bool {
		return !strings.EqualFold(snap.LastCommand(), command)
	}
}

func buildNoRepeat(map[string]any) (Predicate, error) {
	return NoRepeat(), nil
}

// MaxUses allows a command at most n times along one path.
func MaxUses(n int) Predicate {
	return func(snap domain.Snapshot, command string) bool {
		return snap.Uses(command) < n
	}
}

func buildMaxUses(params map[string]any) (Predicate, error) {
	var p struct {
		N int `mapstructure:"n"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.N < 1 {
		return nil, errors.New("n must be at least 1")
	}
	return MaxUses(p.N), nil
}

// MaxDepth allows a command only while the path is shorter than n moves.
func MaxDepth(n int) Predicate {
	return func(snap domain.Snapshot, _ string) bool {
		return snap.Depth() < n
	}
}

func buildMaxDepth(params map[string]any) (Predicate, error) {
	var p struct {
		N int `mapstructure:"n"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.N < 1 {
		return nil, errors.New("n must be at least 1")
	}
	return MaxDepth(p.N), nil
}

// InRoom allows a command only in the listed rooms.
func InRoom(rooms ...string) Predicate {
	normalized := normalizeRooms(rooms)
	return func(snap domain.Snapshot, _ string) bool {
		return slices.Contains(normalized, snap.Room)
	}
}

func buildInRoom(params map[string]any) (Predicate, error) {
	rooms, err := roomList(params)
	if err != nil {
		return nil, err
	}
	return InRoom(rooms...), nil
}

// NotInRoom blocks a command in the listed rooms.
func NotInRoom(rooms ...string) Predicate {
	normalized := normalizeRooms(rooms)
	return func(snap domain.Snapshot, _ string) bool {
		return !slices.Contains(normalized, snap.Room)
	}
}

func buildNotInRoom(params map[string]any) (Predicate, error) {
	rooms, err := roomList(params)
	if err != nil {
		return nil, err
	}
	return NotInRoom(rooms...), nil
}

// Has allows a command only while the inventory contains item (substring,
// case-insensitive).
func Has(item string) Predicate {
	return func(snap domain.Snapshot, _ string) bool {
		return snap.Has(item)
	}
}

func buildHas(params map[string]any) (Predicate, error) {
	item, err := itemParam(params)
	if err != nil {
		return nil, err
	}
	return Has(item), nil
}

// Lacks is the negation of Has.
func Lacks(item string) Predicate {
	return func(snap domain.Snapshot, _ string) bool {
		return !snap.Has(item)
	}
}

func buildLacks(params map[string]any) (Predicate, error) {
	item, err := itemParam(params)
	if err != nil {
		return nil, err
	}
	return Lacks(item), nil
}

// After allows a command only once another command appears in the trail.
func After(command string) Predicate {
	return func(snap domain.Snapshot, _ string) bool {
		return snap.Uses(command) > 0
	}
}

func buildAfter(params map[string]any) (Predicate, error) {
	var p struct {
		Command string `mapstructure:"command"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Command) == "" {
		return nil, errors.New("command must not be empty")
	}
	return After(p.Command), nil
}

func normalizeRooms(rooms []string) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, strings.ToLower(strings.TrimSpace(r)))
	}
	return out
}

func roomList(params map[string]any) ([]string, error) {
	var p struct {
		Rooms []string `mapstructure:"rooms"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if len(p.Rooms) == 0 {
		return nil, errors.New("rooms must not be empty")
	}
	return p.Rooms, nil
}

func itemParam(params map[string]any) (string, error) {
	var p struct {
		Item string `mapstructure:"item"`
	}
	if err := decodeParams(params, &p); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Item) == "" {
		return "", errors.New("item must not be empty")
	}
	return p.Item, nil
}
