package ledger

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteThenRestore_RecoversOrder(t *testing.T) {
	l := New([]string{"a", "b", "c"})

	require.True(t, l.Delete(1))
	assert.Equal(t, []string{"a", "c"}, l.Displayed())
	assert.Equal(t, []Deleted[string]{{Item: "b", Position: 1}}, l.Deleted())

	require.True(t, l.Restore(0))
	assert.Equal(t, []string{"a", "b", "c"}, l.Displayed())
	assert.Zero(t, l.DeletedLen())
}

func TestDelete_RecordsReferenceFramePosition(t *testing.T) {
	l := New([]string{"a", "b", "c", "d", "e"})

	// Display indices shift as deletions accumulate; positions do not.
	l.Delete(0) // a
	l.Delete(0) // b
	l.Delete(1) // d
	assert.Equal(t, []string{"c", "e"}, l.Displayed())
	assert.Equal(t, []Deleted[string]{
		{Item: "a", Position: 0},
		{Item: "b", Position: 1},
		{Item: "d", Position: 3},
	}, l.Deleted())
	assert.Equal(t, []int{2, 4}, l.DisplayedPositions())

	// Restore d: lands between c and e.
	l.Restore(2)
	assert.Equal(t, []string{"c", "d", "e"}, l.Displayed())

	// Restore a: lands before everything.
	l.Restore(0)
	assert.Equal(t, []string{"a", "c", "d", "e"}, l.Displayed())
}

func TestRestore_AppendsWhenNothingLater(t *testing.T) {
	l := New([]int{10, 20, 30})
	l.Delete(2)
	l.Delete(1)
	l.Restore(0) // 30, nothing displayed after it
	assert.Equal(t, []int{10, 30}, l.Displayed())
	l.Restore(0) // 20
	assert.Equal(t, []int{10, 20, 30}, l.Displayed())
}

func TestRestoreAll(t *testing.T) {
	l := New([]string{"a", "b", "c", "d", "e", "f"})
	l.Delete(4) // e
	l.Delete(0) // a
	l.Delete(1) // c
	l.Delete(2) // f

	assert.Equal(t, []string{"b", "d"}, l.Displayed())
	assert.Equal(t, 4, l.RestoreAll())
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, l.Displayed())
	assert.Zero(t, l.DeletedLen())
	assert.Zero(t, l.RestoreAll())
}

func TestClear_DiscardsPermanently(t *testing.T) {
	l := New([]string{"a", "b", "c", "d"})
	l.Delete(1) // b
	l.Delete(2) // d
	assert.Equal(t, 2, l.Clear())

	assert.Empty(t, l.Deleted())
	assert.False(t, l.Restore(0))
	assert.Zero(t, l.RestoreAll())
	assert.Equal(t, []string{"a", "c"}, l.Displayed())

	l.Delete(0) // a
	l.RestoreAll()
	assert.Equal(t, []string{"a", "c"}, l.Displayed())
}

func TestOutOfRangeIndicesAreIgnored(t *testing.T) {
	l := New([]string{"a", "b"})

	assert.False(t, l.Delete(-1))
	assert.False(t, l.Delete(2))
	assert.False(t, l.Restore(0))
	assert.False(t, l.Restore(-1))
	assert.Equal(t, []string{"a", "b"}, l.Displayed())

	l.Delete(0)
	assert.False(t, l.Restore(1))
	assert.Equal(t, 1, l.DeletedLen())

	_, ok := l.At(5)
	assert.False(t, ok)
	item, ok := l.At(0)
	assert.True(t, ok)
	assert.Equal(t, "b", item)
}

func TestNew_CopiesFrame(t *testing.T) {
	items := []string{"a", "b"}
	l := New(items)
	items[0] = "z"
	assert.Equal(t, []string{"a", "b"}, l.Displayed())
	assert.Equal(t, 2, l.FrameLen())

	empty := New[string](nil)
	assert.Empty(t, empty.Displayed())
	assert.False(t, empty.Delete(0))
}

// model is a direct rendition of the restoration rule: scan the displayed
// sequence for the first element positioned after the restored one.
type model struct {
	displayed []int
	deleted   []int
}

func (m *model) insert(pos int) {
	at := len(m.displayed)
	for i, p := range m.displayed {
		if p > pos {
			at = i
			break
		}
	}
	m.displayed = append(m.displayed[:at], append([]int{pos}, m.displayed[at:]...)...)
}

func TestRandomOperations_MatchLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		n := rng.Intn(20)
		frame := make([]int, n)
		m := &model{}
		for i := range frame {
			frame[i] = i * 10
			m.displayed = append(m.displayed, i)
		}
		l := New(frame)
		cleared := make(map[int]bool)

		for step := 0; step < 60; step++ {
			switch op := rng.Intn(10); {
			case op < 5:
				idx := rng.Intn(n+2) - 1
				l.Delete(idx)
				if idx >= 0 && idx < len(m.displayed) {
					m.deleted = append(m.deleted, m.displayed[idx])
					m.displayed = append(m.displayed[:idx], m.displayed[idx+1:]...)
				}
			case op < 8:
				idx := rng.Intn(n+2) - 1
				l.Restore(idx)
				if idx >= 0 && idx < len(m.deleted) {
					pos := m.deleted[idx]
					m.deleted = append(m.deleted[:idx], m.deleted[idx+1:]...)
					m.insert(pos)
				}
			case op < 9:
				l.RestoreAll()
				sort.Ints(m.deleted)
				for _, pos := range m.deleted {
					m.insert(pos)
				}
				m.deleted = nil
			default:
				l.Clear()
				for _, pos := range m.deleted {
					cleared[pos] = true
				}
				m.deleted = nil
			}

			require.Equal(t, len(m.displayed), l.Len())
			for i, pos := range l.DisplayedPositions() {
				require.Equal(t, m.displayed[i], pos, "run %d step %d", run, step)
			}
		}

		// After restoring everything, the order is the reference frame
		// minus whatever was cleared.
		l.RestoreAll()
		var want []int
		for i, v := range frame {
			if !cleared[i] {
				want = append(want, v)
			}
		}
		if want == nil {
			want = []int{}
		}
		assert.Equal(t, want, l.Displayed())
	}
}
