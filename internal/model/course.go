package model

import (
	"encoding/json"
	"strconv"

	"gorm.io/datatypes"
)

type ModuleType string

const (
	ModuleText  ModuleType = "text"
	ModuleVideo ModuleType = "video"
	ModuleAudio ModuleType = "audio"
	ModuleQuiz  ModuleType = "quiz"
)

// swagger:model Course
type Course struct {
	UUIDBase
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Category        string         `gorm:"size:100;not null" json:"category"`
	Level           string         `gorm:"size:50;not null" json:"level"`
	DurationMinutes int            `gorm:"default:0" json:"durationMinutes"`
	IsPremium       bool           `gorm:"default:false" json:"isPremium"`
	PriceFCFA       int            `gorm:"default:0" json:"priceFcfa"`
	ThumbnailURL    string         `gorm:"size:255" json:"thumbnailUrl,omitempty"`
	CreatedBy       uint           `gorm:"index" json:"createdBy"`
	Content         datatypes.JSON `gorm:"type:json" json:"content"` // 原始模块负载，经 DecodeModules 规范化后使用
}

func (Course) TableName() string {
	return "courses"
}

// Question 测验模块中的单选题
type Question struct {
	ID            string   `json:"id,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Points        int      `json:"points"`
}

// UnmarshalJSON 兼容 correct_answer/correctAnswer 两种键名，points 缺省为 1
func (q *Question) UnmarshalJSON(data []byte) error {
	type rawQuestion struct {
		ID          string   `json:"id"`
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Snake       *int     `json:"correct_answer"`
		Camel       *int     `json:"correctAnswer"`
		Explanation string   `json:"explanation"`
		Points      int      `json:"points"`
	}

	var raw rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.ID = raw.ID
	q.Question = raw.Question
	q.Options = raw.Options
	q.Explanation = raw.Explanation

	switch {
	case raw.Camel != nil:
		q.CorrectAnswer = *raw.Camel
	case raw.Snake != nil:
		q.CorrectAnswer = *raw.Snake
	}

	q.Points = raw.Points
	if q.Points <= 0 {
		q.Points = 1
	}
	return nil
}

// Valid 检查正确答案下标是否落在选项范围内
func (q *Question) Valid() bool {
	return len(q.Options) > 0 && q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// Module 课程内容单元。Type 决定哪些字段有意义：
// text 用 Content，video/audio 用对应 URL，quiz 用 Questions。
type Module struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Type            ModuleType `json:"type"`
	Content         string     `json:"content,omitempty"`
	DurationMinutes int        `json:"duration,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
	AudioURL        string     `json:"audio_url,omitempty"`
	Questions       []Question `json:"quiz_questions,omitempty"`
}

// UnmarshalJSON 兼容 quiz_questions/questions 两种键名，未知类型归为 text
func (m *Module) UnmarshalJSON(data []byte) error {
	type rawModule struct {
		ID              string     `json:"id"`
		Title           string     `json:"title"`
		Type            string     `json:"type"`
		Content         string     `json:"content"`
		DurationMinutes int        `json:"duration"`
		VideoURL        string     `json:"video_url"`
		AudioURL        string     `json:"audio_url"`
		QuizQuestions   []Question `json:"quiz_questions"`
		Questions       []Question `json:"questions"`
	}

	var raw rawModule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	m.Title = raw.Title
	m.Content = raw.Content
	m.DurationMinutes = raw.DurationMinutes
	m.VideoURL = raw.VideoURL
	m.AudioURL = raw.AudioURL

	switch ModuleType(raw.Type) {
	case ModuleText, ModuleVideo, ModuleAudio, ModuleQuiz:
		m.Type = ModuleType(raw.Type)
	default:
		m.Type = ModuleText
	}

	m.Questions = raw.QuizQuestions
	if len(m.Questions) == 0 {
		m.Questions = raw.Questions
	}
	return nil
}

func (m *Module) IsQuiz() bool {
	return m.Type == ModuleQuiz
}

// CourseContent 课程 content 列的结构化形式
type CourseContent struct {
	Modules []Module `json:"modules"`
}

// DecodeModules 容错解析课程的原始 content 负载。
// 历史数据里 content 可能是 JSON 对象、二次编码的 JSON 字符串或裸模块数组；
// 任何解析失败都退化为空模块列表，而不是让整个课程加载失败。
// 缺少 id 的模块以下标补齐，保证下游始终用字符串 id 定位模块。
func DecodeModules(raw datatypes.JSON) []Module {
	if len(raw) == 0 {
		return []Module{}
	}

	data := []byte(raw)

	// 二次编码："{\"modules\":[...]}" 先解开外层字符串
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		data = []byte(asString)
	}

	var content CourseContent
	if err := json.Unmarshal(data, &content); err != nil || content.Modules == nil {
		// 兼容裸数组形式 [...]
		var modules []Module
		if err := json.Unmarshal(data, &modules); err != nil {
			return []Module{}
		}
		content.Modules = modules
	}

	for i := range content.Modules {
		if content.Modules[i].ID == "" {
			content.Modules[i].ID = strconv.Itoa(i)
		}
	}
	return content.Modules
}

// EncodeModules 把模块列表编码回 content 列的规范形式
func EncodeModules(modules []Module) (datatypes.JSON, error) {
	raw, err := json.Marshal(CourseContent{Modules: modules})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
