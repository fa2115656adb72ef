package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEpisodeCSV_WithHeadingAndSlide(t *testing.T) {
	data := `Step,X,Y,Speed,Steering_Angle,Heading,Slide
0,0,0,2.0,0,0,1.5
1,0,1,2.1,10,-90,
2,0,2,2.2,-5,450,bad
`
	ep, err := ReadEpisodeCSV(strings.NewReader(data), "run-1.csv")
	require.NoError(t, err)
	require.Len(t, ep.Samples, 3)

	assert.Equal(t, EpisodeID("run-1.csv"), ep.ID)
	assert.Equal(t, "run-1.csv", ep.Name)

	s := ep.Samples
	assert.Equal(t, 1, s[1].Step)
	assert.Equal(t, 2.1, s[1].Speed)
	assert.Equal(t, 10.0, s[1].SteeringDegrees)
	assert.InDelta(t, 270.0, float64(s[1].Heading), 1e-9)
	assert.InDelta(t, 90.0, float64(s[2].Heading), 1e-9)

	require.NotNil(t, s[0].Slide)
	assert.Equal(t, 1.5, *s[0].Slide)
	assert.Nil(t, s[1].Slide)
	assert.Nil(t, s[2].Slide)
}

func TestReadEpisodeCSV_DerivesHeadings(t *testing.T) {
	data := `x,y,speed,steering_angle
0,0,1,0
0,0,1,0
1,0,1,0
1,1,1,0
`
	ep, err := ReadEpisodeCSV(strings.NewReader(data), "derived")
	require.NoError(t, err)
	require.Len(t, ep.Samples, 4)

	// first movement is due east, stationary leading samples take it too
	assert.InDelta(t, 90.0, float64(ep.Samples[0].Heading), 1e-9)
	assert.InDelta(t, 90.0, float64(ep.Samples[1].Heading), 1e-9)
	assert.InDelta(t, 90.0, float64(ep.Samples[2].Heading), 1e-9)
	assert.InDelta(t, 0.0, float64(ep.Samples[3].Heading), 1e-9)
	assert.Equal(t, 3, ep.Samples[3].Step)
}

func TestReadEpisodeCSV_NonFiniteCellsAreMalformed(t *testing.T) {
	data := `x,y,speed,steering_angle,heading,slide
NaN,1,Inf,-Inf,nan,NaN
1,+Inf,2,3,90,-inf
2,3,4,5,180,0.25
`
	ep, err := ReadEpisodeCSV(strings.NewReader(data), "noisy")
	require.NoError(t, err)
	require.Len(t, ep.Samples, 3)

	s := ep.Samples
	assert.Equal(t, 0.0, s[0].Position.X)
	assert.Equal(t, 0.0, s[0].Speed)
	assert.Equal(t, 0.0, s[0].SteeringDegrees)
	assert.Equal(t, 0.0, float64(s[0].Heading))
	assert.Nil(t, s[0].Slide)

	assert.Equal(t, 0.0, s[1].Position.Y)
	assert.Nil(t, s[1].Slide)

	require.NotNil(t, s[2].Slide)
	assert.Equal(t, 0.25, *s[2].Slide)
}

func TestReadEpisodeCSV_MissingColumn(t *testing.T) {
	_, err := ReadEpisodeCSV(strings.NewReader("x,y,speed\n1,2,3\n"), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steering_angle")
}

func TestEpisodeID_Deterministic(t *testing.T) {
	assert.Equal(t, EpisodeID("a.csv"), EpisodeID("a.csv"))
	assert.NotEqual(t, EpisodeID("a.csv"), EpisodeID("b.csv"))
}

func TestLoadEpisodes_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("x,y,speed,steering_angle\n0,0,1,0\n0,1,1,0\n"), 0644))

	src := LoadEpisodes([]string{good, filepath.Join(dir, "missing.csv")})
	require.Len(t, src.Episodes(), 1)
	assert.Equal(t, "good.csv", src.Episodes()[0].Name)
}
