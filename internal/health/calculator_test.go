package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(70.5, 175)
	require.NoError(t, err)
	assert.Equal(t, 23.0, bmi)

	_, err = CalculateBMI(0, 175)
	assert.Error(t, err, "体重为零应报错")

	_, err = CalculateBMI(70, -1)
	assert.Error(t, err, "身高为负应报错")
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{17.0, "偏瘦"},
		{18.5, "正常"},
		{23.9, "正常"},
		{24.0, "超重"},
		{28.0, "肥胖"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, BMICategory(c.bmi), "BMI %.1f", c.bmi)
	}
}

func TestCalculateBMR(t *testing.T) {
	// 男性：10*70 + 6.25*175 - 5*28 + 5 = 1658.75 ≈ 1658.8
	bmr, err := CalculateBMR("male", 70, 175, 28)
	require.NoError(t, err)
	assert.Equal(t, 1658.8, bmr)

	// 女性：10*60 + 6.25*165 - 5*30 - 161 = 1320.25 ≈ 1320.3
	bmr, err = CalculateBMR("female", 60, 165, 30)
	require.NoError(t, err)
	assert.Equal(t, 1320.3, bmr)

	_, err = CalculateBMR("male", 70, 175, 0)
	assert.Error(t, err)
}

func TestCalculateTDEE(t *testing.T) {
	tdee, err := CalculateTDEE(1600, "moderate")
	require.NoError(t, err)
	assert.Equal(t, 2480.0, tdee)

	_, err = CalculateTDEE(1600, "heroic")
	assert.Error(t, err, "未知活动水平应报错")
}

func TestIdealWeightRange(t *testing.T) {
	r := IdealWeightRange(175)
	assert.Equal(t, 56.7, r[0])
	assert.Equal(t, 73.2, r[1])
	assert.Less(t, r[0], r[1])
}

func TestCalculateMetrics(t *testing.T) {
	metrics, err := CalculateMetrics(DefaultProfile())
	require.NoError(t, err)

	assert.Equal(t, 23.0, metrics.BMI)
	assert.Equal(t, "正常", metrics.BMICategory)
	assert.Greater(t, metrics.TDEE, metrics.BMR)
}

func TestSampleMetricRecordsDeterministic(t *testing.T) {
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	a := SampleMetricRecords(start, 7)
	b := SampleMetricRecords(start, 7)

	require.Len(t, a, 7)
	assert.Equal(t, a, b, "示例数据必须可复现")
	assert.Equal(t, "2026-08-23", a[0].Date)
	assert.Equal(t, "2026-08-29", a[6].Date)

	assert.Nil(t, SampleMetricRecords(start, 0))
}

func TestWeightTrend(t *testing.T) {
	start := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	trend := WeightTrend(SampleMetricRecords(start, 7))

	// 示例数据体重逐日下降
	assert.Equal(t, "decreasing", trend["trend_direction"])
	assert.Equal(t, -0.6, trend["weight_change"])

	short := WeightTrend(nil)
	assert.Equal(t, "unknown", short["trend_direction"])
}
