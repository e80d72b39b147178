package factory

import (
	"testing"

	"github.com/coder/quartz"

	"github.com/mcoot/superbowl-squares/internal/dependencies/mocks"
	"github.com/mcoot/superbowl-squares/internal/storage/memory"
	"github.com/mcoot/superbowl-squares/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *quartz.Mock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(t testing.TB) *TestApp {
	store := memory.New()
	mockClock := quartz.NewMock(t)
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, testutil.NopLogger(), 0)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueFullBoardShuffles queues identity permutations for the team and both digit shuffles
func (t *TestApp) QueueFullBoardShuffles() {
	t.MockRandom.QueueShuffle(0, 1)
	t.MockRandom.QueueShuffle(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	t.MockRandom.QueueShuffle(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
}
