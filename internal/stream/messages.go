package stream

import (
	"github.com/lawnchairsociety/defendertower/internal/placement"
	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// Message types sent to the client, in order: one start, zero or more
// resolve, then done. error replaces done if the run cannot finish.
const (
	TypeStart   = "start"
	TypeResolve = "resolve"
	TypeDone    = "done"
	TypeError   = "error"
)

// StartMessage describes the run that is about to stream
type StartMessage struct {
	Type      string                `json:"type"`
	Structure tower.StructureConfig `json:"structure"`
	Catalog   string                `json:"catalog"`
	Tiles     []string              `json:"tiles"`
}

// ResolveMessage is sent once per collapse
type ResolveMessage struct {
	Type     string         `json:"type"`
	Step     int            `json:"step"`
	Pos      wfc.Position   `json:"pos"`
	Tile     wfc.TileID     `json:"tile"`
	Name     string         `json:"name"`
	Position placement.Vec3 `json:"position"`
}

// ContradictionMessage is one emptied cell in the done message
type ContradictionMessage struct {
	Kind string       `json:"kind"`
	Pos  wfc.Position `json:"pos"`
	Step int          `json:"step"`
}

// DoneMessage closes a stream with the final extraction
type DoneMessage struct {
	Type           string                 `json:"type"`
	State          string                 `json:"state"`
	Steps          int                    `json:"steps"`
	Summary        wfc.Summary            `json:"summary"`
	Placements     []wfc.Placement        `json:"placements"`
	Contradictions []ContradictionMessage `json:"contradictions"`
	RunID          int64                  `json:"run_id,omitempty"`
}

// ErrorMessage reports a failure after the upgrade
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newDoneMessage(s *tower.Structure) DoneMessage {
	msg := DoneMessage{
		Type:           TypeDone,
		State:          s.State.String(),
		Steps:          s.Steps,
		Summary:        s.Summary,
		Placements:     s.Placements,
		Contradictions: make([]ContradictionMessage, 0, len(s.Contradictions)),
	}
	if msg.Placements == nil {
		msg.Placements = []wfc.Placement{}
	}
	for _, c := range s.Contradictions {
		msg.Contradictions = append(msg.Contradictions, ContradictionMessage{
			Kind: c.Kind.String(),
			Pos:  c.Pos,
			Step: c.Step,
		})
	}
	return msg
}
