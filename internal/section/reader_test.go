package section_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/conquest-editor/internal/section"
)

const breedText = "{breed\n" +
	"\t{inventory\n" +
	"\t\t{item \"weapon mp40\"}\n" +
	"\t\t;{item \"ammo mp40\" 6}\n" +
	"\t\t{item \"ammo mp40\" 192}\n" +
	"\t\t{box\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\t{inventory\n" +
	"\t\t{item \"knife\"}\n" +
	"\t}\n" +
	"}\n"

func TestReader_LinesKeepOffsets(t *testing.T) {
	r := section.NewReader("a\nbc\nd")
	lines := r.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, section.Line{Text: "bc\n", Offset: 2}, lines[1])
	assert.Equal(t, "d", lines[2].Text)
	assert.Equal(t, 6, lines[2].End())
}

func TestReader_BlockIsFlat(t *testing.T) {
	r := section.NewReader(breedText)

	b, ok := r.Block(section.Contains("{inventory"), section.CloseLine)
	require.True(t, ok)
	assert.True(t, b.Closed)
	// the nested box close "\t\t}\n" does not end the block
	assert.Len(t, b.Body, 5)
	assert.Equal(t, []string{
		"\t\t{item \"weapon mp40\"}\n",
		"\t\t{item \"ammo mp40\" 192}\n",
	}, b.Filter(section.ItemLine))

	start, end := b.Span()
	assert.Equal(t, "\t{inventory\n", breedText[start:start+len("\t{inventory\n")])
	assert.Equal(t, "\t}\n", breedText[end-3:end])
}

func TestReader_Blocks(t *testing.T) {
	r := section.NewReader(breedText)
	blocks := r.Blocks(section.Contains("{inventory"), section.CloseLine)
	require.Len(t, blocks, 2)
	assert.Equal(t, []string{"\t\t{item \"knife\"}\n"}, blocks[1].Filter(section.ItemLine))
}

func TestReader_UnclosedBlock(t *testing.T) {
	text := "\t{Inventory 0x1\n\t\t{item \"a\"}\n"
	b, ok := section.NewReader(text).Block(section.Contains("{Inventory"), section.CloseLine)
	require.True(t, ok)
	assert.False(t, b.Closed)
	start, end := b.Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, len(text), end)
}

func TestReader_Run(t *testing.T) {
	text := "\t{CampaignSquads\n\t\t{\"a\" 1 0x1}\n\t\t{\"b\" 2 0x2}\n\t}\n"
	r := section.NewReader(text)
	i, ok := r.Find(section.Contains("{CampaignSquads"), 0)
	require.True(t, ok)

	run := r.Run(i, section.ContainsAll("{", "}"))
	require.Len(t, run, 2)
	assert.Equal(t, "\t\t{\"b\" 2 0x2}\n", run[1].Text)
}

func TestIndexToken(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		token string
		want  int
	}{
		{"exact", "{Human \"mp/ger/mid/rifleman_1\" 0x12\n", "0x12", 31},
		{"prefix of longer id", "{Human \"x\" 0x123\n", "0x12", -1},
		{"later whole match", "0x123 0x12}", "0x12", 6},
		{"empty token", "0x12", "", -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, section.IndexToken(tc.line, tc.token))
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	raw := "a\r\nb\r\n"
	text, crlf := section.NormalizeNewlines(raw)
	assert.True(t, crlf)
	assert.Equal(t, "a\nb\n", text)
	assert.Equal(t, "a\r\nb\r\n", section.RestoreNewlines(text, raw))
	assert.Equal(t, "a\r\nc\r\nb\r\n", section.RestoreNewlines("a\nc\nb\n", raw))

	text, crlf = section.NormalizeNewlines("a\nb")
	assert.False(t, crlf)
	assert.Equal(t, "a\nb", section.RestoreNewlines(text, "a\nb"))
}

func TestRestoreNewlinesMixed(t *testing.T) {
	raw := "{Scene\r\n\t{Tags \"_user\" \"player\"}\n\t{CampaignSquads\r\n\t}\r\n}\n"
	text, crlf := section.NormalizeNewlines(raw)
	require.True(t, crlf)

	assert.Equal(t, raw, section.RestoreNewlines(text, raw))

	// the edited line keeps its own ending, the inserted one takes the
	// ending of the line before it
	edited := strings.Replace(text, "player", "ai", 1)
	edited = strings.Replace(edited, "\t{CampaignSquads\n", "\t{CampaignSquads\n\t\t{\"pz4\" 1 0x20}\n", 1)
	assert.Equal(t,
		"{Scene\r\n\t{Tags \"_user\" \"ai\"}\n\t{CampaignSquads\r\n\t\t{\"pz4\" 1 0x20}\r\n\t}\r\n}\n",
		section.RestoreNewlines(edited, raw))
}
