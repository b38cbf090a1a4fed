package health

import (
	"time"

	"gorm.io/gorm"
)

// HealthMetric 健康数据表模型，供数据库工具查询
type HealthMetric struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Date       string  `gorm:"index;size:10" json:"date"`
	WeightKg   float64 `json:"weight_kg"`
	BMI        float64 `json:"bmi"`
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleep_hours"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (HealthMetric) TableName() string {
	return "health_metrics"
}

// SeedSampleData 空表时写入最近 7 天的示例数据，重复调用不会累加
func SeedSampleData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&HealthMetric{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	records := SampleMetricRecords(time.Now().AddDate(0, 0, -6), 7)
	rows := make([]HealthMetric, 0, len(records))
	for _, r := range records {
		rows = append(rows, HealthMetric{
			Date:       r.Date,
			WeightKg:   r.WeightKg,
			BMI:        r.BMI,
			Steps:      r.Steps,
			SleepHours: r.SleepHours,
		})
	}
	return db.Create(&rows).Error
}
