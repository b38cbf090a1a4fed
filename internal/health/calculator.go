// Package health 健康指标计算与示例数据
//
// 公式来自营养学常用标准（BMI、Mifflin-St Jeor 基础代谢、TDEE），
// 供占位符工具和演示输出使用，不做任何医学判断。
package health

import (
	"fmt"
	"math"
)

// Profile 用户基础档案
type Profile struct {
	Sex           string  `json:"sex"` // male, female
	Age           int     `json:"age"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"` // sedentary, light, moderate, active, very_active
}

// Metrics 计算结果
type Metrics struct {
	BMI              float64    `json:"bmi"`
	BMICategory      string     `json:"bmi_category"`
	BMR              float64    `json:"bmr"`
	TDEE             float64    `json:"tdee"`
	IdealWeightRange [2]float64 `json:"ideal_weight_range"`
}

// 活动系数（TDEE = BMR * 系数）
var activityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// CalculateBMI 计算体质指数
func CalculateBMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, fmt.Errorf("身高体重必须为正数: weight=%.1f height=%.1f", weightKg, heightCm)
	}
	heightM := heightCm / 100
	return round1(weightKg / (heightM * heightM)), nil
}

// BMICategory BMI 分类（WHO 亚洲标准）
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "偏瘦"
	case bmi < 24:
		return "正常"
	case bmi < 28:
		return "超重"
	default:
		return "肥胖"
	}
}

// CalculateBMR 基础代谢率（Mifflin-St Jeor 公式）
func CalculateBMR(sex string, weightKg, heightCm float64, age int) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, fmt.Errorf("无效的档案参数: weight=%.1f height=%.1f age=%d", weightKg, heightCm, age)
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == "female" {
		bmr -= 161
	} else {
		bmr += 5
	}
	return round1(bmr), nil
}

// CalculateTDEE 每日总能量消耗
func CalculateTDEE(bmr float64, activityLevel string) (float64, error) {
	factor, ok := activityFactors[activityLevel]
	if !ok {
		return 0, fmt.Errorf("未知的活动水平: %s", activityLevel)
	}
	return round1(bmr * factor), nil
}

// IdealWeightRange 正常 BMI 区间（18.5 - 23.9）对应的体重范围
func IdealWeightRange(heightCm float64) [2]float64 {
	heightM := heightCm / 100
	return [2]float64{
		round1(18.5 * heightM * heightM),
		round1(23.9 * heightM * heightM),
	}
}

// CalculateMetrics 汇总计算一份档案的全部指标
func CalculateMetrics(p Profile) (*Metrics, error) {
	bmi, err := CalculateBMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return nil, err
	}

	bmr, err := CalculateBMR(p.Sex, p.WeightKg, p.HeightCm, p.Age)
	if err != nil {
		return nil, err
	}

	tdee, err := CalculateTDEE(bmr, p.ActivityLevel)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		BMI:              bmi,
		BMICategory:      BMICategory(bmi),
		BMR:              bmr,
		TDEE:             tdee,
		IdealWeightRange: IdealWeightRange(p.HeightCm),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
