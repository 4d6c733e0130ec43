package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestUserProgress_CompletedList_Tolerant(t *testing.T) {
	plain := UserProgress{CompletedModules: datatypes.JSON(`["a","b"]`)}
	assert.Equal(t, []string{"a", "b"}, plain.CompletedList())

	// 双重编码的历史数据
	doubled := UserProgress{CompletedModules: datatypes.JSON(`"[\"x\"]"`)}
	assert.Equal(t, []string{"x"}, doubled.CompletedList())

	garbage := UserProgress{CompletedModules: datatypes.JSON(`not json`)}
	assert.Empty(t, garbage.CompletedList())

	var empty UserProgress
	assert.Empty(t, empty.CompletedList())
}

func TestUserProgress_HasCompleted(t *testing.T) {
	p := UserProgress{}
	require.NoError(t, p.SetCompletedList([]string{"0", "intro"}))

	assert.True(t, p.HasCompleted("intro"))
	assert.True(t, p.HasCompleted("0"))
	assert.False(t, p.HasCompleted("1"))
}

func TestUserProgress_QuizScores(t *testing.T) {
	p := UserProgress{}
	require.NoError(t, p.SetQuizScore("quiz-1", 80))
	require.NoError(t, p.SetQuizScore("quiz-2", 100))
	require.NoError(t, p.SetQuizScore("quiz-1", 90)) // 重考覆盖

	scores := p.QuizScoreMap()
	assert.Equal(t, 90, scores["quiz-1"])
	assert.Equal(t, 100, scores["quiz-2"])
}
