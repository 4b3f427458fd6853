package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/observability"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/aretw0/rover/pkg/session"
	"github.com/aretw0/rover/pkg/solutions/command"
	"github.com/aretw0/rover/pkg/solutions/nopattern"
	"github.com/aretw0/rover/pkg/solutions/typestate"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps every event it receives.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.PoseEvent
}

func (s *recordingSink) Publish(ctx context.Context, e domain.PoseEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) all() []domain.PoseEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PoseEvent(nil), s.events...)
}

func TestManager_Move(t *testing.T) {
	sink := &recordingSink{}
	m := session.NewManager(nopattern.Pattern{},
		session.WithOrigin(domain.NewPose(7, 3, domain.North)),
		session.WithSink(sink),
	)
	ctx := context.Background()

	snap, err := m.Move(ctx, "RAALA")
	require.NoError(t, err)

	assert.Equal(t, domain.NewPose(9, 4, domain.North), snap.Pose)
	assert.Equal(t, uint64(1), snap.Revision)
	assert.JSONEq(t, `{"x":9,"y":4,"facing":"North"}`, string(snap.State))

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, domain.OpMove, events[0].Operation)
	assert.Equal(t, "no_pattern", events[0].Pattern)
	require.NotNil(t, events[0].Report)
	assert.Equal(t, 5, events[0].Report.Applied)
}

func TestManager_SerializesConcurrentMoves(t *testing.T) {
	m := session.NewManager(typestate.Pattern{})
	ctx := context.Background()

	var wg sync.WaitGroup
	workers := 50
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A full turn and a step: only correct if batches never interleave.
			_, err := m.Move(ctx, "RRRRA")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := m.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewPose(0, workers, domain.North), snap.Pose)
	assert.Equal(t, uint64(workers), snap.Revision)
}

func TestManager_PublishesOutsideTheLock(t *testing.T) {
	var m *session.Manager
	var observed domain.Pose
	sink := ports.PoseSinkFunc(func(ctx context.Context, e domain.PoseEvent) error {
		// Re-entering the manager would deadlock if the lock were still held.
		snap, err := m.Position(ctx)
		observed = snap.Pose
		return err
	})
	m = session.NewManager(nopattern.Pattern{}, session.WithSink(sink))

	_, err := m.Move(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, domain.NewPose(0, 1, domain.North), observed)
}

func TestManager_SinkErrorsDoNotFailTheRequest(t *testing.T) {
	failing := ports.PoseSinkFunc(func(context.Context, domain.PoseEvent) error {
		return errors.New("broker down")
	})
	m := session.NewManager(nopattern.Pattern{}, session.WithSink(failing))

	snap, err := m.Move(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Pose.Y)
}

func TestManager_Reposition(t *testing.T) {
	m := session.NewManager(typestate.Pattern{})
	ctx := context.Background()

	snap, err := m.Reposition(ctx, []byte(`{"South":{"position":{"x":-3,"y":8}}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.NewPose(-3, 8, domain.South), snap.Pose)

	_, err = m.Reposition(ctx, []byte(`{"Up":{"position":{"x":0,"y":0}}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, err, domain.ErrUnknownDirection)

	current, err := m.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Pose, current.Pose, "failed reposition must not touch the robot")
	assert.Equal(t, snap.Revision, current.Revision)
}

func TestManager_Reset(t *testing.T) {
	origin := domain.NewPose(2, 2, domain.West)
	m := session.NewManager(command.Pattern{}, session.WithOrigin(origin))
	ctx := context.Background()

	_, err := m.Move(ctx, "AAR")
	require.NoError(t, err)

	snap, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, origin, snap.Pose)

	history, err := m.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestManager_Undo(t *testing.T) {
	m := session.NewManager(command.Pattern{})
	ctx := context.Background()
	require.True(t, m.SupportsUndo())

	_, err := m.Move(ctx, "AR")
	require.NoError(t, err)

	history, err := m.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"advance", "turn_right"}, history)

	snap, undone, err := m.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, domain.NewPose(0, 1, domain.North), snap.Pose)

	_, _, err = m.Undo(ctx)
	require.NoError(t, err)
	snap, undone, err = m.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Equal(t, domain.Origin, snap.Pose)
}

func TestManager_UndoUnsupported(t *testing.T) {
	m := session.NewManager(nopattern.Pattern{})
	assert.False(t, m.SupportsUndo())

	_, _, err := m.Undo(context.Background())
	assert.ErrorIs(t, err, domain.ErrUndoUnsupported)

	_, err = m.History(context.Background())
	assert.ErrorIs(t, err, domain.ErrUndoUnsupported)
}

func TestManager_DeliversInRevisionOrder(t *testing.T) {
	metrics := observability.NewMetrics()
	delivering := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var order []uint64
	slow := ports.PoseSinkFunc(func(ctx context.Context, e domain.PoseEvent) error {
		if e.Revision == 1 {
			close(delivering)
			<-release
		}
		mu.Lock()
		defer mu.Unlock()
		order = append(order, e.Revision)
		return nil
	})
	m := session.NewManager(nopattern.Pattern{}, session.WithSink(slow, metrics))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := m.Move(ctx, "A")
		assert.NoError(t, err)
	}()
	<-delivering

	// Revision 1 is still being delivered; revision 2 must not overtake it.
	snap, err := m.Move(ctx, "AA")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Revision)
	assert.Equal(t, domain.NewPose(0, 3, domain.North), snap.Pose)

	close(release)
	<-done

	mu.Lock()
	assert.Equal(t, []uint64{1, 2}, order)
	mu.Unlock()

	expected := `
# HELP rover_revision Revision of the latest published robot state
# TYPE rover_revision gauge
rover_revision 2
# HELP rover_position Latest robot coordinate by axis
# TYPE rover_position gauge
rover_position{axis="x"} 0
rover_position{axis="y"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected),
		"rover_revision", "rover_position"))
}

func TestManager_SinkMayReenter(t *testing.T) {
	var m *session.Manager
	var once sync.Once
	sink := &recordingSink{}
	reentrant := ports.PoseSinkFunc(func(ctx context.Context, e domain.PoseEvent) error {
		once.Do(func() {
			_, err := m.Move(ctx, "R")
			assert.NoError(t, err)
		})
		return nil
	})
	m = session.NewManager(nopattern.Pattern{}, session.WithSink(reentrant, sink))

	_, err := m.Move(context.Background(), "A")
	require.NoError(t, err)

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Revision)
	assert.Equal(t, uint64(2), events[1].Revision)
	assert.Equal(t, domain.East, events[1].Pose.Facing)
}
