package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeModules_Envelope(t *testing.T) {
	raw := datatypes.JSON(`{"modules":[{"id":"intro","title":"Introduction","type":"video","video_url":"/v/1.mp4"},{"id":"quiz-1","title":"Quiz","type":"quiz","questions":[{"question":"Q1","options":["A","B"],"correctAnswer":1}]}]}`)

	modules := DecodeModules(raw)
	require.Len(t, modules, 2)
	assert.Equal(t, "intro", modules[0].ID)
	assert.Equal(t, ModuleVideo, modules[0].Type)
	assert.Equal(t, ModuleQuiz, modules[1].Type)
	require.Len(t, modules[1].Questions, 1)
	assert.Equal(t, 1, modules[1].Questions[0].CorrectAnswer)
}

func TestDecodeModules_BareArray(t *testing.T) {
	raw := datatypes.JSON(`[{"id":"a","title":"A","type":"text"}]`)

	modules := DecodeModules(raw)
	require.Len(t, modules, 1)
	assert.Equal(t, "a", modules[0].ID)
}

func TestDecodeModules_DoubleEncodedString(t *testing.T) {
	// Supabase 侧有时把整个 content 再 JSON 编码一层
	raw := datatypes.JSON(`"{\"modules\":[{\"id\":\"x\",\"title\":\"X\",\"type\":\"audio\"}]}"`)

	modules := DecodeModules(raw)
	require.Len(t, modules, 1)
	assert.Equal(t, ModuleAudio, modules[0].Type)
}

func TestDecodeModules_MalformedPayload(t *testing.T) {
	cases := map[string]datatypes.JSON{
		"garbage":     datatypes.JSON(`{{{not json`),
		"empty":       nil,
		"empty bytes": datatypes.JSON(``),
		"null":        datatypes.JSON(`null`),
		"wrong shape": datatypes.JSON(`42`),
		"string junk": datatypes.JSON(`"plain text"`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			modules := DecodeModules(raw)
			assert.NotNil(t, modules)
			assert.Empty(t, modules)
		})
	}
}

func TestDecodeModules_MissingIDsGetPositionalFallback(t *testing.T) {
	raw := datatypes.JSON(`{"modules":[{"title":"First","type":"text"},{"id":"named","title":"Second","type":"text"},{"title":"Third","type":"text"}]}`)

	modules := DecodeModules(raw)
	require.Len(t, modules, 3)
	assert.Equal(t, "0", modules[0].ID)
	assert.Equal(t, "named", modules[1].ID)
	assert.Equal(t, "2", modules[2].ID)
}

func TestDecodeModules_UnknownTypeDegradesToText(t *testing.T) {
	raw := datatypes.JSON(`{"modules":[{"id":"m","title":"M","type":"hologram"}]}`)

	modules := DecodeModules(raw)
	require.Len(t, modules, 1)
	assert.Equal(t, ModuleText, modules[0].Type)
}

func TestQuestion_UnmarshalJSON_KeyCompatibility(t *testing.T) {
	var snake Question
	require.NoError(t, snake.UnmarshalJSON([]byte(`{"question":"Q","options":["A","B","C"],"correct_answer":2}`)))
	assert.Equal(t, 2, snake.CorrectAnswer)

	var camel Question
	require.NoError(t, camel.UnmarshalJSON([]byte(`{"question":"Q","options":["A","B","C"],"correctAnswer":1}`)))
	assert.Equal(t, 1, camel.CorrectAnswer)
}

func TestQuestion_UnmarshalJSON_PointsDefault(t *testing.T) {
	var q Question
	require.NoError(t, q.UnmarshalJSON([]byte(`{"question":"Q","options":["A","B"],"correctAnswer":0}`)))
	assert.Equal(t, 1, q.Points)

	var explicit Question
	require.NoError(t, explicit.UnmarshalJSON([]byte(`{"question":"Q","options":["A","B"],"correctAnswer":0,"points":5}`)))
	assert.Equal(t, 5, explicit.Points)
}

func TestQuestion_Valid(t *testing.T) {
	valid := Question{Options: []string{"A", "B"}, CorrectAnswer: 1}
	assert.True(t, valid.Valid())

	outOfRange := Question{Options: []string{"A", "B"}, CorrectAnswer: 2}
	assert.False(t, outOfRange.Valid())

	noOptions := Question{CorrectAnswer: 0}
	assert.False(t, noOptions.Valid())
}

func TestEncodeDecodeModules_RoundTrip(t *testing.T) {
	modules := []Module{
		{ID: "m1", Title: "Texte", Type: ModuleText, Content: "bonjour"},
		{ID: "m2", Title: "Quiz", Type: ModuleQuiz, Questions: []Question{
			{Question: "Q", Options: []string{"Vrai", "Faux"}, CorrectAnswer: 0, Points: 2},
		}},
	}

	raw, err := EncodeModules(modules)
	require.NoError(t, err)

	decoded := DecodeModules(raw)
	require.Len(t, decoded, 2)
	assert.Equal(t, "m1", decoded[0].ID)
	assert.Equal(t, 2, decoded[1].Questions[0].Points)
}
