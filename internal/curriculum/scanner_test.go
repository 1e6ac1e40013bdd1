// Package curriculum_test tests phrase extraction and naming.
package curriculum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/curriculum-audio/internal/curriculum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlockCurriculum = `
const dailyCurriculum = [
  {
    day: 1,
    activities: [
      {
        type: "listening",
        clips: [{ characters: "不算" }]
      },
      {
        type: "speaking",
        phrases: [
          { characters: "你好", pinyin: "nǐ hǎo" },
          { characters: "再见", pinyin: "zài jiàn" }
        ]
      }
    ]
  },
  {
    day: 2,
    activities: [
      {
        type: "speaking",
        phrases: [
          { characters: "谢谢", pinyin: "xiè xie" }
        ]
      }
    ]
  }
];
`

func TestScanTwoBlocks(t *testing.T) {
	t.Parallel()

	scanner := curriculum.NewScanner("小明")
	phrases := scanner.Scan(twoBlockCurriculum)

	require.Len(t, phrases, 3)

	assert.Equal(t, 1, phrases[0].Day)
	assert.Equal(t, 0, phrases[0].Index)
	assert.Equal(t, "你好", phrases[0].Text)
	assert.Equal(t, "day1_speaking_phrase0.mp3", phrases[0].Filename)

	assert.Equal(t, 1, phrases[1].Day)
	assert.Equal(t, 1, phrases[1].Index)
	assert.Equal(t, "再见", phrases[1].Text)
	assert.Equal(t, "day1_speaking_phrase1.mp3", phrases[1].Filename)

	assert.Equal(t, 2, phrases[2].Day)
	assert.Equal(t, 0, phrases[2].Index)
	assert.Equal(t, "谢谢", phrases[2].Text)
	assert.Equal(t, "day2_speaking_phrase0.mp3", phrases[2].Filename)
}

func TestScanIsDeterministic(t *testing.T) {
	t.Parallel()

	scanner := curriculum.NewScanner("小明")

	first := scanner.Scan(twoBlockCurriculum)
	second := scanner.Scan(twoBlockCurriculum)

	assert.Equal(t, first, second)
}

func TestScanIgnoresNonSpeakingActivities(t *testing.T) {
	t.Parallel()

	content := `
      { type: "listening", phrases: [ { characters: "不要" } ] }
      { type: "reading", phrases: [ { characters: "也不要" } ] }
`

	scanner := curriculum.NewScanner("小明")
	phrases := scanner.Scan(content)

	assert.Empty(t, phrases)
}

func TestScanEmptyBlockStillConsumesDayNumber(t *testing.T) {
	t.Parallel()

	content := `
      { type: "speaking", phrases: [ ] },
      { type: "speaking", phrases: [ { characters: "谢谢" } ] }
`

	scanner := curriculum.NewScanner("小明")
	phrases := scanner.Scan(content)

	require.Len(t, phrases, 1)
	assert.Equal(t, 2, phrases[0].Day)
	assert.Equal(t, "day2_speaking_phrase0.mp3", phrases[0].Filename)
}

func TestScanSubstitutesPlaceholder(t *testing.T) {
	t.Parallel()

	content := `
      { type: "speaking", phrases: [ { characters: "{{NAME}} 你好" } ] }
`

	scanner := curriculum.NewScanner("小明")
	phrases := scanner.Scan(content)

	require.Len(t, phrases, 1)
	assert.Equal(t, "{{NAME}} 你好", phrases[0].Text)
	assert.Equal(t, "小明 你好", phrases[0].AudioText)
}

func TestSubstituteNameIsIdempotent(t *testing.T) {
	t.Parallel()

	naming := curriculum.NewNaming("小明")

	once := naming.SubstituteName("{{NAME}} 你好")
	assert.Equal(t, "小明 你好", once)

	twice := naming.SubstituteName(once)
	assert.Equal(t, once, twice)
}

func TestScanFileMissingIsFatal(t *testing.T) {
	t.Parallel()

	scanner := curriculum.NewScanner("小明")

	phrases, err := scanner.ScanFile(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.Nil(t, phrases)
}

func TestScanFileReadsDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily-curriculum.js")
	require.NoError(t, os.WriteFile(path, []byte(twoBlockCurriculum), 0o600))

	scanner := curriculum.NewScanner("小明")

	phrases, err := scanner.ScanFile(path)
	require.NoError(t, err)
	assert.Len(t, phrases, 3)
}

func TestNamePhrases(t *testing.T) {
	t.Parallel()

	scanner := curriculum.NewScanner("小明")
	names := scanner.NamePhrases()

	require.Len(t, names, len(curriculum.ProperNames))

	assert.Equal(t, 0, names[0].Day)
	assert.Equal(t, "小明", names[0].Text)
	assert.Equal(t, "name_小明.mp3", names[0].Filename)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	scanner := curriculum.NewScanner("小明")
	phrases := scanner.Scan(twoBlockCurriculum)

	require.NotEmpty(t, phrases)
	assert.Equal(
		t,
		"Day 1, #0: 你好 -> day1_speaking_phrase0.mp3",
		curriculum.Describe(phrases[0]),
	)
}
