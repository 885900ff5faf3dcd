package trackview

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func querySequence(t *testing.T) (*Sequence, *AnimNode, *AnimNode, *AnimNode) {
	t.Helper()
	seq, _ := newTestSequence("seq")
	g := seq.CreateSubNode("g", AnimNodeGroup, uuid.Nil)
	cam := g.CreateSubNode("cam", AnimNodeCamera, uuid.Nil)
	v := seq.CreateSubNode("v", AnimNodeCVar, uuid.Nil)
	tr := v.CreateTrack(Param(ParamFloat))
	tr.CreateKey(1)
	tr.CreateKey(2)
	require.NotNil(t, cam)
	return seq, g, cam, v
}

func names(b AnimNodeBundle) []string {
	var out []string
	for _, n := range b.Nodes() {
		out = append(out, n.Name())
	}
	return out
}

func TestFindNodes(t *testing.T) {
	seq, _, _, _ := querySequence(t)

	tests := []struct {
		query string
		want  []string
	}{
		{`type == "Camera"`, []string{"cam"}},
		{`depth == 1`, []string{"g", "v"}},
		{`keys > 1`, []string{"v"}},
		{`tracks == 3`, []string{"cam"}},
		{`name startsWith "c" || type == "Group"`, []string{"g", "cam"}},
		{`hidden`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := seq.FindNodes(tt.query)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(found))
		})
	}
}

func TestQueryCountsSubTrackKeys(t *testing.T) {
	seq, _, cam, _ := querySequence(t)
	cam.TrackForParameter(Param(ParamPosition), 0).CreateKey(1)

	found, err := seq.FindNodes(`type == "Camera" && keys == 3`)
	require.NoError(t, err)
	assert.Equal(t, []string{"cam"}, names(found), "one key on each of X, Y and Z")
}

func TestCompileNodeQueryErrors(t *testing.T) {
	for _, src := range []string{"", `unknown == 1`, `name`, `keys +`} {
		_, err := CompileNodeQuery(src)
		assert.Error(t, err, "query %q", src)
	}
	_, err := (&Sequence{}).FindNodes(`nope`)
	assert.Error(t, err)
}

func TestNodeQueryMatch(t *testing.T) {
	_, _, cam, v := querySequence(t)
	q, err := CompileNodeQuery(`!disabled && expanded == false`)
	require.NoError(t, err)
	assert.Equal(t, `!disabled && expanded == false`, q.String())

	ok, err := q.Match(v)
	require.NoError(t, err)
	assert.True(t, ok)

	cam.SetDisabled(true)
	ok, err = q.Match(cam)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryEntityVariable(t *testing.T) {
	seq, store, _ := storeSequence()
	e := store.add("crate")
	seq.CreateSubNode("crate", AnimNodeEntity, e.id)
	seq.CreateSubNode("g", AnimNodeGroup, uuid.Nil)

	found, err := seq.FindNodes(`entity == "` + e.id.String() + `"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"crate"}, names(found))
}

func TestSelectNodes(t *testing.T) {
	seq, _, cam, v := querySequence(t)
	rec := &recorder{}
	seq.AddListener(rec)

	n, err := seq.SelectNodes(`type == "CVar"`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, v.IsSelected())
	assert.Equal(t, 1, rec.count("nodeSelection"))

	rec.reset()
	n, err = seq.SelectNodes(`depth == 2`)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, cam.IsSelected())
	assert.False(t, v.IsSelected())
	assert.Equal(t, 1, rec.count("nodeSelection"))

	_, err = seq.SelectNodes(`depth ==`)
	require.Error(t, err)
	assert.True(t, cam.IsSelected(), "a bad query keeps the selection")
}
