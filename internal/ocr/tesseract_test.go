package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers the text invocation and the TSV invocation separately.
type fakeRunner struct {
	text   string
	tsv    string
	err    error
	tsvErr error
}

func (f fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(f.tsv), nil, f.tsvErr
	}
	if f.err != nil {
		return nil, []byte("tesseract: cannot open"), f.err
	}
	return []byte(f.text), nil, nil
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t40\t12\t90\tJB\n" +
	"5\t1\t1\t1\t1\t2\t55\t10\t40\t12\t70\tHi-Fi\n"

func TestTesseractRecognizeBlendsTSVConfidence(t *testing.T) {
	eng := NewTesseractEngine("", "")
	eng.WorkDir = t.TempDir()
	text := "JB Hi-Fi\n15/01/2024\nTotal: $349.00"
	eng.runner = fakeRunner{text: text, tsv: sampleTSV}

	res, err := eng.Recognize(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "fallback", res.Engine)
	assert.Equal(t, text, res.Text)
	// mean word conf (90+70)/2 = 80 blended 70/30 with the text heuristic
	want := 0.7*80 + 0.3*heuristicConfidence(text)
	assert.InDelta(t, want, res.Confidence, 1e-9)
}

func TestTesseractRecognizeWithoutTSVFallsBackToHeuristic(t *testing.T) {
	eng := NewTesseractEngine("", "")
	eng.WorkDir = t.TempDir()
	text := "JB Hi-Fi\n15/01/2024\nTotal: $349.00"
	eng.runner = fakeRunner{text: text, tsvErr: errors.New("tsv unsupported")}

	res, err := eng.Recognize(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.InDelta(t, heuristicConfidence(text), res.Confidence, 1e-9)
}

func TestTesseractRecognizeBinaryFailure(t *testing.T) {
	eng := NewTesseractEngine("", "")
	eng.WorkDir = t.TempDir()
	eng.runner = fakeRunner{err: errors.New("exit status 1")}

	res, err := eng.Recognize(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.True(t, strings.Contains(res.Err, "cannot open"))
}

func TestTSVConfidenceSkipsNonWordRows(t *testing.T) {
	eng := NewTesseractEngine("", "")
	eng.runner = fakeRunner{tsv: sampleTSV}

	conf, err := eng.tsvConfidence(context.Background(), "ignored.png")
	require.NoError(t, err)
	assert.InDelta(t, 80.0, conf, 1e-9)
}
