package round

import (
	"cmp"
	"slices"
	"time"

	"github.com/plus3/dragonbubbles/avatar"
	"github.com/plus3/dragonbubbles/bubble"
	"github.com/plus3/dragonbubbles/ecs"
)

type bubbleEntity = struct {
	ecs.EntityId
	*bubble.Bubble
}

// PaceSystem converts the frame delta into reference-frame steps.
type PaceSystem struct {
	Pace     ecs.Singleton[Pace]
	MaxSteps float64
}

func (s *PaceSystem) Execute(frame *ecs.UpdateFrame) {
	steps := bubble.Steps(time.Duration(frame.DeltaTime * float64(time.Second)))
	if s.MaxSteps > 0 && steps > s.MaxSteps {
		steps = s.MaxSteps
	}
	s.Pace.Get().Steps = max(steps, 0)
}

// AvatarSystem pulls the target from the configured source. A source with
// nothing to offer leaves the avatar where it was.
type AvatarSystem struct {
	Avatar ecs.Singleton[bubble.Avatar]
	Source avatar.Source
}

func (s *AvatarSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Source == nil {
		return
	}
	p, ok := s.Source.Target(frame.Now)
	if !ok {
		return
	}
	a := s.Avatar.Get()
	a.X, a.Y = p.X, p.Y
}

// SpawnSystem makes exactly one emission decision per frame.
type SpawnSystem struct {
	Spawner *bubble.Spawner
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if b, ok := s.Spawner.Spawn(frame.Now); ok {
		frame.Commands.Spawn(b)
	}
}

// KinematicsSystem moves every bubble and queues the ones that fell out of
// the field for deletion.
type KinematicsSystem struct {
	Bubbles ecs.Query[bubbleEntity]
	Pace    ecs.Singleton[Pace]
	Field   bubble.Field
}

func (s *KinematicsSystem) Execute(frame *ecs.UpdateFrame) {
	snapshot, ids := collect(&s.Bubbles, frame.Commands)
	moved := bubble.Advance(snapshot, s.Pace.Get().Steps, s.Field)

	kept := make(map[uint64]bubble.Bubble, len(moved))
	for _, b := range moved {
		kept[b.ID] = b
	}
	for _, b := range snapshot {
		entity := ids[b.ID]
		next, ok := kept[b.ID]
		if !ok {
			frame.Commands.Delete(entity.EntityId)
			continue
		}
		*entity.Bubble = next
	}
}

// CollisionSystem consumes every bubble the avatar overlaps and applies the
// clamped score change once per frame.
type CollisionSystem struct {
	Bubbles ecs.Query[bubbleEntity]
	Avatar  ecs.Singleton[bubble.Avatar]
	State   ecs.Singleton[State]
	Outbox  ecs.Singleton[Outbox]
	Scoring bubble.Scoring
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	snapshot, ids := collect(&s.Bubbles, frame.Commands)
	res := bubble.Resolve(snapshot, *s.Avatar.Get(), s.Scoring)
	if len(res.Events) == 0 {
		return
	}

	for _, ev := range res.Events {
		frame.Commands.Delete(ids[ev.Bubble.ID].EntityId)
	}

	state := s.State.Get()
	state.Score = bubble.ApplyDelta(state.Score, res.Delta)

	out := s.Outbox.Get()
	out.Events = append(out.Events, res.Events...)
	out.ScoreChanged = true
}

// FeedbackSystem publishes the frame's events to the collaborators.
type FeedbackSystem struct {
	State    ecs.Singleton[State]
	Outbox   ecs.Singleton[Outbox]
	Feedback Feedback
	Display  Display
}

func (s *FeedbackSystem) Execute(frame *ecs.UpdateFrame) {
	out := s.Outbox.Get()
	for _, ev := range out.Events {
		if ev.Kind == bubble.EventReward {
			s.Feedback.Cue(CueReward)
		} else {
			s.Feedback.Cue(CuePenalty)
		}
	}
	if out.ScoreChanged {
		s.Display.ShowScore(scoreText(s.State.Get().Score))
	}
	clear(out.Events)
	out.Events = out.Events[:0]
	out.ScoreChanged = false
}

// collect copies the live bubbles not already queued for deletion, ordered
// by id so the pure functions see a stable sequence.
func collect(q *ecs.Query[bubbleEntity], commands *ecs.Commands) ([]bubble.Bubble, map[uint64]bubbleEntity) {
	ids := make(map[uint64]bubbleEntity, q.Count())
	snapshot := make([]bubble.Bubble, 0, q.Count())
	for entity := range q.Iter() {
		if commands.Deleting(entity.EntityId) {
			continue
		}
		snapshot = append(snapshot, *entity.Bubble)
		ids[entity.Bubble.ID] = entity
	}
	slices.SortFunc(snapshot, func(a, b bubble.Bubble) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return snapshot, ids
}
