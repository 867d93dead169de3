//go:build performance
// +build performance

package perf

import (
	"Inkwell/backend/editor"
	"Inkwell/backend/editor/impl"
	"Inkwell/backend/editor/tests"
	"Inkwell/backend/types"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var editorFac = impl.NewEditor

type speedThresholds struct {
	name string
	max  time.Duration
}

// assessSpeed logs the first threshold the benchmark meets and fails when it
// meets none of them.
func assessSpeed(t *testing.T, res testing.BenchmarkResult, thresholds []speedThresholds) {
	perOp := time.Duration(res.NsPerOp())
	for _, th := range thresholds {
		if perOp <= th.max {
			t.Logf("%s: %s per op", th.name, perOp)
			return
		}
	}
	t.Errorf("too slow: %s per op", perOp)
}

// This test executes the exact same function as BenchmarkTyping. The
// benchmark hides failures.
func Test_History_Typing_Benchmark_Correctness(t *testing.T) {
	runTyping(t, 1000)
}

func Test_History_BenchmarkTyping(t *testing.T) {
	res := testing.Benchmark(BenchmarkTyping)

	assessSpeed(t, res, []speedThresholds{
		{"speed great", 100 * time.Millisecond},
		{"speed ok", 1 * time.Second},
		{"speed passable", 5 * time.Second},
	})
}

// Types N random characters at random carets with random pauses, undoes
// everything and checks no text is left.
func BenchmarkTyping(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runTyping(b, 1000)
	}
}

func runTyping(t require.TestingT, opN int) {
	clock := tests.NewFakeClock()
	conf := tests.TestConfiguration(clock)
	conf.MaxHistory = opN + 1
	ed := editorFac(conf)

	var key types.NodeKey
	err := ed.Update(func(tree editor.Tree) error {
		p := tree.CreateElement(types.ParagraphType, types.ElementOptions{})
		if err := tree.Append(types.RootKey, p.Key); err != nil {
			return err
		}
		n := tree.CreateText("")
		key = n.Key
		return tree.Append(p.Key, n.Key)
	})
	require.NoError(t, err)

	size := 0
	for i := 0; i < opN; i++ {
		if rand.Intn(10) == 0 {
			offset := rand.Intn(size + 1)
			err := ed.Update(func(tree editor.Tree) error {
				p := types.Point{Key: key, Offset: offset, Type: types.TextPoint}
				tree.SetSelection(types.NewRangeSelection(p, p))
				return nil
			})
			require.NoError(t, err)
		}

		clock.Advance(time.Duration(rand.Intn(1500)) * time.Millisecond)
		char := string(rune(rand.Intn(26) + 97))
		require.True(t, ed.Dispatch(types.CommandInsertText, char))
		size++
	}

	require.Len(t, ed.Snapshot().Node(key).Text, size)

	for ed.History().UndoCount() > 0 {
		require.True(t, ed.Dispatch(types.CommandUndo, nil))
	}
	require.Empty(t, ed.Snapshot().TextContent())
}
