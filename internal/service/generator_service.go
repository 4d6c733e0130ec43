package service

import (
	"fmt"
	"strings"
	"welearn_backend/internal/model"
)

// GeneratorService 课程内容模板生成器：根据主题关键词产出课程骨架和测验题草稿，
// 供教师在编辑器里继续加工。同样的输入总是产出同样的内容。
type GeneratorService struct{}

func NewGeneratorService() *GeneratorService {
	return &GeneratorService{}
}

// GeneratedCourse 生成的课程草稿
type GeneratedCourse struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Category           string         `json:"category"`
	Level              string         `json:"level"`
	DurationMinutes    int            `json:"durationMinutes"`
	Modules            []model.Module `json:"modules"`
	LearningObjectives []string       `json:"learningObjectives"`
	Resources          []string       `json:"resources"`
}

// GenerateCourse 按主题生成四段式课程：介绍、核心概念、实践应用、结业测验
func (s *GeneratorService) GenerateCourse(topic, level string) *GeneratedCourse {
	if level == "" {
		level = "intermediate"
	}

	modules := []model.Module{
		{
			ID:              "0",
			Title:           fmt.Sprintf("Introduction à %s", topic),
			Type:            model.ModuleVideo,
			DurationMinutes: 15,
			Content:         fmt.Sprintf("Découvrez les fondamentaux de %s dans le contexte africain.", topic),
		},
		{
			ID:              "1",
			Title:           fmt.Sprintf("Concepts clés de %s", topic),
			Type:            model.ModuleText,
			DurationMinutes: 25,
			Content:         "Approfondissement des concepts essentiels.",
		},
		{
			ID:              "2",
			Title:           "Applications pratiques",
			Type:            model.ModuleText,
			DurationMinutes: 30,
			Content:         "Exemples concrets et cas d'usage en Afrique.",
		},
		{
			ID:        "3",
			Title:     fmt.Sprintf("Évaluation %s", topic),
			Type:      model.ModuleQuiz,
			Questions: s.GenerateQuiz(topic, 8),
		},
	}

	return &GeneratedCourse{
		Title:           fmt.Sprintf("Cours complet: %s", topic),
		Description:     fmt.Sprintf("Formation complète sur %s, adaptée au contexte local.", topic),
		Category:        categoryFor(topic),
		Level:           level,
		DurationMinutes: durationFor(topic),
		Modules:         modules,
		LearningObjectives: []string{
			fmt.Sprintf("Comprendre les principes fondamentaux de %s", topic),
			"Appliquer les concepts dans un contexte africain",
			"Développer des compétences pratiques",
			"Être capable de former d'autres personnes",
		},
		Resources: []string{
			fmt.Sprintf("Guide PDF: Les bases de %s", topic),
			"Checklist: Points clés à retenir",
			"Liens utiles et ressources complémentaires",
		},
	}
}

// GenerateQuiz 生成单选题草稿。偶数题四选一，奇数题判断题，正确项都在第一位，
// 等教师改写后再发布。
func (s *GeneratorService) GenerateQuiz(topic string, count int) []model.Question {
	if count <= 0 || count > 20 {
		count = 8
	}

	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		question := model.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Question:      fmt.Sprintf("Question %d sur %s", i+1, topic),
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf("Explication détaillée pour la question %d", i+1),
			Points:        5 + i%5,
		}
		if i%2 == 0 {
			question.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		} else {
			question.Options = []string{"Vrai", "Faux"}
		}
		questions = append(questions, question)
	}
	return questions
}

// categoryFor 关键词匹配课程分类
func categoryFor(topic string) string {
	keywords := strings.ToLower(topic)
	switch {
	case strings.Contains(keywords, "finance"), strings.Contains(keywords, "argent"), strings.Contains(keywords, "économie"):
		return "finance"
	case strings.Contains(keywords, "tech"), strings.Contains(keywords, "informatique"), strings.Contains(keywords, "programmation"):
		return "technology"
	case strings.Contains(keywords, "motivation"), strings.Contains(keywords, "développement"):
		return "personal_development"
	default:
		return "general"
	}
}

// durationFor 主题越具体（词越多）预估时长越长，夹在 [60, 300] 分钟
func durationFor(topic string) int {
	minutes := len(strings.Fields(topic)) * 10
	if minutes < 60 {
		return 60
	}
	if minutes > 300 {
		return 300
	}
	return minutes
}
