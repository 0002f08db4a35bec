package model

import (
	"testing"
	"time"
)

// DATE 列经 database/sql 取回为 time.Time，扫描结果必须是纯日期文本，
// 否则报表按日归桶的键与 Format("2006-01-02") 生成的键对不上
func TestDateOnlyScan(t *testing.T) {
	cases := []struct {
		name string
		src  interface{}
		want DateOnly
	}{
		{"time.Time", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), "2024-01-08"},
		{"带时区的 time.Time", time.Date(2024, 1, 8, 23, 30, 0, 0, time.FixedZone("IST", 3600)), "2024-01-08"},
		{"纯日期文本", "2024-01-08", "2024-01-08"},
		{"带时间后缀的文本", []byte("2024-01-08T00:00:00Z"), "2024-01-08"},
		{"NULL", nil, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d DateOnly
			if err := d.Scan(tc.src); err != nil {
				t.Fatalf("Scan 失败: %v", err)
			}
			if d != tc.want {
				t.Errorf("期望 %q，实际 %q", tc.want, d)
			}
		})
	}

	var d DateOnly
	if err := d.Scan(42); err == nil {
		t.Error("期望不支持的类型报错")
	}
}

func TestDateOnlyValue(t *testing.T) {
	v, err := DateOnly("2024-01-08").Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}
	if v != "2024-01-08" {
		t.Errorf("期望写库值 2024-01-08，实际 %v", v)
	}
}
