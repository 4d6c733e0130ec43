package service

import (
	"testing"
	"welearn_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_CourseIsDeterministic(t *testing.T) {
	svc := NewGeneratorService()

	first := svc.GenerateCourse("la finance personnelle", "beginner")
	second := svc.GenerateCourse("la finance personnelle", "beginner")
	assert.Equal(t, first, second, "same input must produce the same draft")

	assert.Equal(t, "Cours complet: la finance personnelle", first.Title)
	assert.Equal(t, "finance", first.Category)
	require.Len(t, first.Modules, 4)
	assert.Equal(t, model.ModuleQuiz, first.Modules[3].Type)
	assert.NotEmpty(t, first.Modules[3].Questions)
}

func TestGenerator_CategoryKeywords(t *testing.T) {
	svc := NewGeneratorService()

	assert.Equal(t, "technology", svc.GenerateCourse("programmation web", "").Category)
	assert.Equal(t, "personal_development", svc.GenerateCourse("motivation au travail", "").Category)
	assert.Equal(t, "general", svc.GenerateCourse("histoire", "").Category)
}

func TestGenerator_GeneratedQuestionsAreValid(t *testing.T) {
	svc := NewGeneratorService()

	questions := svc.GenerateQuiz("économie", 8)
	require.Len(t, questions, 8)
	for _, q := range questions {
		assert.True(t, q.Valid(), "generated question %q must be answerable", q.ID)
		assert.GreaterOrEqual(t, q.Points, 5)
	}

	// 数量越界回退到默认值
	assert.Len(t, svc.GenerateQuiz("x", 0), 8)
	assert.Len(t, svc.GenerateQuiz("x", 100), 8)
}

func TestGenerator_DurationBounds(t *testing.T) {
	assert.Equal(t, 60, durationFor("court"))
	assert.Equal(t, 100, durationFor("un deux trois quatre cinq six sept huit neuf dix"))
	assert.Equal(t, 300, durationFor("a b c d e f g h i j k l m n o p q r s t u v w x y z a b c d e f"))
}
