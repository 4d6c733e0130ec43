package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// UserProgress 每个学员 × 课程一条进度记录。
// CompletedModules 存模块 id 的集合（JSON 数组），百分比在每次变更时重算，
// CompletedAt 是课程首次达到 100% 的落库标记，保证完课信号只触发一次。
type UserProgress struct {
	BaseModel
	UserID             uint           `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"userId"`
	CourseID           string         `gorm:"uniqueIndex:idx_user_course;type:varchar(36)" json:"courseId"`
	CompletedModules   datatypes.JSON `gorm:"type:json" json:"completedModules"`
	ProgressPercentage int            `gorm:"default:0" json:"progressPercentage"`
	QuizScores         datatypes.JSON `gorm:"type:json" json:"quizScores"` // 模块id -> 测验得分(百分比)
	TimeSpentMinutes   int            `gorm:"default:0" json:"timeSpentMinutes"`
	LastAccessedAt     time.Time      `json:"lastAccessedAt"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// CompletedList 解析已完成模块 id 列表；历史数据可能是二次编码的字符串，容错处理
func (p *UserProgress) CompletedList() []string {
	if len(p.CompletedModules) == 0 {
		return []string{}
	}

	data := []byte(p.CompletedModules)

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		data = []byte(asString)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return []string{}
	}
	return ids
}

// HasCompleted 模块是否已完成（集合语义）
func (p *UserProgress) HasCompleted(moduleID string) bool {
	for _, id := range p.CompletedList() {
		if id == moduleID {
			return true
		}
	}
	return false
}

// SetCompletedList 覆写已完成模块集合
func (p *UserProgress) SetCompletedList(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.CompletedModules = datatypes.JSON(raw)
	return nil
}

// QuizScoreMap 解析各测验模块的得分
func (p *UserProgress) QuizScoreMap() map[string]int {
	scores := make(map[string]int)
	if len(p.QuizScores) == 0 {
		return scores
	}
	if err := json.Unmarshal(p.QuizScores, &scores); err != nil {
		return make(map[string]int)
	}
	return scores
}

// SetQuizScore 记录某个测验模块的得分
func (p *UserProgress) SetQuizScore(moduleID string, score int) error {
	scores := p.QuizScoreMap()
	scores[moduleID] = score
	raw, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	p.QuizScores = datatypes.JSON(raw)
	return nil
}
