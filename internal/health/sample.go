package health

import (
	"time"
)

// MetricRecord 一条健康数据记录
type MetricRecord struct {
	Date       string  `json:"date"`
	WeightKg   float64 `json:"weight_kg"`
	BMI        float64 `json:"bmi"`
	Steps      int     `json:"steps"`
	SleepHours float64 `json:"sleep_hours"`
}

// DefaultProfile 演示用默认档案
func DefaultProfile() Profile {
	return Profile{
		Sex:           "male",
		Age:           28,
		HeightCm:      175,
		WeightKg:      70.5,
		ActivityLevel: "moderate",
	}
}

// SampleMetricRecords 生成确定性的示例健康数据
// 以 start 为起点逐日生成 days 条记录，体重缓慢下降，步数和睡眠周期性波动。
func SampleMetricRecords(start time.Time, days int) []MetricRecord {
	if days <= 0 {
		return nil
	}

	profile := DefaultProfile()
	records := make([]MetricRecord, 0, days)

	for i := 0; i < days; i++ {
		weight := profile.WeightKg - 0.1*float64(i)
		bmi, _ := CalculateBMI(weight, profile.HeightCm)

		records = append(records, MetricRecord{
			Date:       start.AddDate(0, 0, i).Format("2006-01-02"),
			WeightKg:   round1(weight),
			BMI:        bmi,
			Steps:      7000 + (i%7)*500,
			SleepHours: 6.5 + float64(i%3)*0.5,
		})
	}
	return records
}

// WeightTrend 简单的体重变化摘要
func WeightTrend(records []MetricRecord) map[string]any {
	if len(records) < 2 {
		return map[string]any{"trend_direction": "unknown", "weight_change": 0.0}
	}

	change := round1(records[len(records)-1].WeightKg - records[0].WeightKg)
	direction := "stable"
	switch {
	case change < 0:
		direction = "decreasing"
	case change > 0:
		direction = "increasing"
	}

	return map[string]any{
		"trend_direction": direction,
		"weight_change":   change,
	}
}
