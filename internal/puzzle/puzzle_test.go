package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/game"
)

func animals() Puzzle {
	return Puzzle{
		ID:    "animals",
		Theme: "animals",
		Board: [][]string{
			{"C", "A", "T", "Q"},
			{"O", "W", "X", "B"},
			{"W", "D", "O", "G"},
			{"H", "E", "N", "L"},
		},
		Words: []string{"cat", "cow", "dog", "hen", "owl"},
	}
}

func TestValidate(t *testing.T) {
	ragged := animals()
	ragged.Board = [][]string{{"A", "B"}, {"C"}}
	wide := animals()
	wide.Board[1][1] = "WW"
	blank := animals()
	blank.Board[0][0] = ""
	noWords := animals()
	noWords.Words = []string{" ", ""}
	badWord := animals()
	badWord.Words = []string{"c4t"}
	noID := animals()
	noID.ID = ""

	tests := []struct {
		name string
		p    Puzzle
		err  error
	}{
		{"ok", animals(), nil},
		{"empty board", Puzzle{ID: "x", Words: []string{"a"}}, ErrEmptyBoard},
		{"ragged", ragged, ErrRaggedBoard},
		{"two letters", wide, ErrBadCell},
		{"blank cell", blank, ErrBadCell},
		{"no words", noWords, ErrNoWords},
		{"digit in word", badWord, ErrBadWord},
		{"no id", noID, ErrNoID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidate_Umlauts(t *testing.T) {
	p := Puzzle{ID: "de", Board: [][]string{{"G", "R", "Ü", "N"}}, Words: []string{"grün"}}
	require.NoError(t, p.Validate())
}

func TestDimensions(t *testing.T) {
	p := animals()
	p.Board = p.Board[:3]
	assert.Equal(t, Dimensions{Width: 4, Height: 3}, p.Dimensions())
	assert.Equal(t, Dimensions{}, Puzzle{}.Dimensions())
}

func TestFind(t *testing.T) {
	p := animals()

	assert.Equal(t, []game.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, p.Find("cat"))
	assert.Equal(t, []game.Cell{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}}, p.Find("COW"))
	assert.Equal(t, []game.Cell{{Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}}, p.Find("dog"))
	assert.Equal(t, []game.Cell{{Row: 3, Col: 0}, {Row: 3, Col: 1}, {Row: 3, Col: 2}}, p.Find("hen"))
	// Up-left diagonal.
	assert.Equal(t, []game.Cell{{Row: 2, Col: 2}, {Row: 1, Col: 1}, {Row: 0, Col: 0}}, p.Find("owc"))
	assert.Nil(t, p.Find("owl"))
	assert.Nil(t, p.Find(""))
}

func TestFind_SharpS(t *testing.T) {
	p := Puzzle{
		ID:    "de",
		Board: [][]string{{"S", "T", "R", "A", "ẞ", "E"}},
		Words: []string{"STRAẞE"},
	}
	want := []game.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}, {Row: 0, Col: 4}, {Row: 0, Col: 5}}

	assert.Equal(t, want, p.Find("straße"))
	assert.Equal(t, want, p.Find("STRAẞE"))
	assert.Empty(t, p.Unfindable())
}

func TestUnfindable(t *testing.T) {
	assert.Equal(t, []string{"owl"}, animals().Unfindable())
}

func TestFind_MatchesEngine(t *testing.T) {
	p := animals()
	e := game.New(p.Grid(), p.Words)

	for _, w := range []string{"cat", "cow", "dog", "hen"} {
		cells := p.Find(w)
		require.NotNil(t, cells, w)
		e.Begin(cells[0])
		for _, c := range cells[1:] {
			e.Extend(c)
		}
		e.End()
	}

	assert.Equal(t, []string{"OWL"}, e.Remaining())
}

func TestDecode(t *testing.T) {
	in := `[{"id":"a","board":[["C","A","T"]],"words":["cat"]}]`
	list, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	_, err = Decode(strings.NewReader(`[{"id":"b","board":[["C","A"],["T"]],"words":["cat"]}]`))
	require.ErrorIs(t, err, ErrRaggedBoard)

	_, err = Decode(strings.NewReader(`{`))
	require.Error(t, err)
}
